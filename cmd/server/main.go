package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"car-expense-tracker/internal/config"
	"car-expense-tracker/internal/handlers"
	applog "car-expense-tracker/internal/log"
	"car-expense-tracker/internal/storage"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	applog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}

func setupLogger(cfg *config.Config) *applog.Logger {
	lc := applog.DefaultConfig()
	lc.Level = applog.ParseLevel(cfg.LogLevel)
	lc.JSON = cfg.Env != config.EnvLocal
	return applog.New(lc)
}

func setupRouter(h *handlers.Handlers, staticDir string) http.Handler {
	return handlers.NewRouter(h, staticDir)
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	storeLogger := logger.WithComponent(applog.ComponentStorage)
	if removed, err := db.CleanExpiredSessions(); err != nil {
		storeLogger.Warn("Failed to clean expired sessions", applog.FieldError, err)
	} else if removed > 0 {
		storeLogger.Info("Removed expired sessions", "count", removed)
	}

	h := handlers.NewHandlers(db, logger.WithComponent(applog.ComponentHTTP), cfg.TemplateDir, cfg.SecureCookie)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(h, cfg.StaticDir),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server",
			applog.FieldOperation, applog.OpStartup,
			"addr", srv.Addr,
			"env", cfg.Env,
			"db", cfg.DBPath,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
