// students-api serves the /students REST resource that the students client
// and TUI talk to, backed by SQLite, plus Prometheus metrics on /metrics.
//
//	go run ./cmd/students-api --config=config/local.yaml
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aanand-mishra/students-manager/internal/config"
	"github.com/aanand-mishra/students-manager/internal/http/middleware"
	"github.com/aanand-mishra/students-manager/internal/http/router"
	"github.com/aanand-mishra/students-manager/internal/logger"
	"github.com/aanand-mishra/students-manager/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env, os.Stdout)
	// Handlers use the package-level slog functions.
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("students-api exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting students-api", slog.String("env", cfg.Env))

	db, err := sqlite.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer db.Close()
	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router.New(db, middleware.NewMetrics(reg)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
