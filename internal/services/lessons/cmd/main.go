package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/lexi-explore/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/db"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/config"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/rest"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/service"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/storage"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/store"
)

func run(ctx context.Context) error {
	slog.Info("starting lessons service")

	cfg := config.FromEnv()

	conn, err := store.NewPostgresDB(store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	pg := store.NewPostgresStore(conn)
	lessons := service.NewLessonsService(pg, service.LessonsServiceConfig{
		CacheKeys:    cfg.LessonsMaxKeys,
		CacheMaxCost: cfg.LessonsMaxCost,
		CacheTTL:     cfg.LessonsTTL,
	})

	objects, err := storage.NewLocalStorage(storage.LocalStorageConfig{
		ServeRoot: cfg.Storage.ServeRoot,
		Root:      cfg.Storage.Root,
	})
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	r := router.New()
	r.Use(
		middleware.Recover(),
		middleware.Log(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigin:  cfg.CORS.AllowOrigin,
			AllowHeaders: cfg.CORS.AllowHeaders,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		}),
	)
	r.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Ping(r.Context()); err != nil {
			slog.Error("database is not reachable", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	api := rest.NewAPI(
		rest.WithLessonsService(lessons),
		rest.WithStorage(objects),
		rest.WithAuth(middleware.Auth([]byte(cfg.AuthSecret))),
		rest.WithMaxUploadSize(cfg.Storage.MaxUploadSize),
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
		slog.Error("lessons service exited with error", "error", err)
		os.Exit(1)
	}
}
