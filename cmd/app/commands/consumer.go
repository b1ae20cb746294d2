package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/bookings/internal/app"
	"github.com/allisson/bookings/internal/config"
)

// RunConsumer starts the notification consumer with graceful shutdown support.
// The consumer drains the queue in batches and delivers each notification;
// the metrics server runs alongside it when enabled. Blocks until receiving
// SIGINT/SIGTERM or encountering a fatal error.
func RunConsumer(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting consumer", slog.String("version", version))

	defer closeContainer(container, logger)

	notificationConsumer, err := container.Consumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize consumer: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return notificationConsumer.Run(groupCtx)
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Start(groupCtx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer shutdownCancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("consumer stopped")
	return nil
}
