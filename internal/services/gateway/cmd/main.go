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
	"github.com/gamma-omg/lexi-explore/internal/services/gateway/internal/config"
	"github.com/gamma-omg/lexi-explore/internal/services/gateway/internal/proxy"
)

func run(ctx context.Context) error {
	slog.Info("starting api gateway")

	cfg := config.FromEnv()

	gw := proxy.NewGateway(
		proxy.WithRoute(proxy.Route{
			Name:   "explore",
			Prefix: "/functions/v1/explore-phrase",
			Target: cfg.Upstream.Explore,
			Strip:  true,
		}),
		proxy.WithRoute(proxy.Route{
			Name:   "lessons",
			Prefix: "/api/v1",
			Target: cfg.Upstream.Lessons,
		}),
		proxy.WithRoute(proxy.Route{
			Name:   "storage",
			Prefix: "/storage",
			Target: cfg.Upstream.Lessons,
		}),
	)

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.Upstream.ProbeTimeout)
		defer cancel()

		if err := gw.Probe(ctx); err != nil {
			slog.Error("upstream is not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/", gw)

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
		slog.Error("api gateway exited with error", "error", err)
		os.Exit(1)
	}
}
