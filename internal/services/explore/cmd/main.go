package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/lexi-explore/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/config"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/rest"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/service"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/speech"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/upstream"
)

func run(ctx context.Context) error {
	slog.Info("starting explore service")

	cfg := config.FromEnv()
	if cfg.AI.APIKey == "" {
		slog.Warn("LOVABLE_API_KEY is not set, explore requests will fail")
	}

	llm := upstream.NewClient(upstream.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
	})
	explore := service.NewExploreService(service.WithCompleter(llm))

	speechOpts := []speech.SpeechServiceOption{
		speech.WithSynthesizer(speech.NewGoogleSynthesizer(speech.GoogleConfig{
			Endpoint:   cfg.Speech.Endpoint,
			APIKey:     cfg.Speech.APIKey,
			HTTPClient: &http.Client{Timeout: cfg.Speech.Timeout},
		})),
	}

	var cache *speech.RedisCache
	if cfg.Redis.Enabled {
		cache = speech.NewRedisCache(speech.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		defer cache.Close()
		speechOpts = append(speechOpts, speech.WithCache(cache))
	}

	r := router.New()
	r.Use(
		middleware.Recover(),
		middleware.Log(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigin:  cfg.CORS.AllowOrigin,
			AllowHeaders: cfg.CORS.AllowHeaders,
		}),
	)
	r.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				slog.Error("audio cache is not reachable", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	api := rest.NewAPI(
		rest.WithExploreService(explore),
		rest.WithSpeechService(speech.NewSpeechService(speechOpts...)),
	)
	r.Handle("/", api)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      r,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("explore service exited with error", "error", err)
		os.Exit(1)
	}
}
