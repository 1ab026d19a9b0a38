package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/apivault/internal/app"
	"github.com/allisson/apivault/internal/config"
)

const shutdownTimeout = 30 * time.Second

// Runnable is a server started and stopped by RunServer.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer loads configuration, builds the container and serves the API (plus /metrics when
// enabled) until SIGINT or SIGTERM. Startup fails fast when the master key cannot be derived.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version), slog.String("driver", cfg.DBDriver))

	defer closeContainer(container, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize http server: %w", err)
	}
	servers := []Runnable{server}

	if cfg.MetricsEnabled {
		metricsServer, err := container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
		servers = append(servers, metricsServer)
	}

	return serve(ctx, logger, shutdownTimeout, servers...)
}

// serve runs every server until ctx is done or one of them fails, then shuts them all down.
func serve(ctx context.Context, logger *slog.Logger, timeout time.Duration, servers ...Runnable) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		g.Go(func() error {
			return s.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
