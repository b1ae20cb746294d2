package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/allisson/bookings/internal/app"
	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	"github.com/allisson/bookings/internal/config"
)

// RunReconcile re-enqueues notifications for bookings stuck in pending state.
// The store is the source of truth: a pending booking older than the age
// threshold means the original enqueue or confirmation was lost, so its
// notification is derived again from the durable record. Supports dry-run
// mode to preview the candidates without publishing.
func RunReconcile(
	ctx context.Context,
	out io.Writer,
	olderThan time.Duration,
	limit int,
	dryRun bool,
	format string,
) error {
	if olderThan < 0 {
		return fmt.Errorf("age must be a positive duration, got: %s", olderThan)
	}
	if limit < 0 {
		return fmt.Errorf("limit must be a positive number, got: %d", limit)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("reconciling pending bookings",
		slog.Duration("older_than", olderThan),
		slog.Int("limit", limit),
		slog.Bool("dry_run", dryRun),
	)

	defer closeContainer(container, logger)

	useCase, err := container.BookingUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize booking use case: %w", err)
	}

	bookings, err := useCase.ReenqueuePending(ctx, olderThan, limit, dryRun)
	if err != nil {
		return fmt.Errorf("failed to reconcile pending bookings: %w", err)
	}

	if format == "json" {
		outputReconcileJSON(out, bookings, dryRun)
	} else {
		outputReconcileText(out, bookings, dryRun)
	}

	logger.Info("reconciliation completed",
		slog.Int("count", len(bookings)),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputReconcileText outputs the result in human-readable text format.
func outputReconcileText(out io.Writer, bookings []*bookingDomain.Booking, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would re-enqueue %d pending booking(s)\n", len(bookings))
	} else {
		fmt.Fprintf(out, "Re-enqueued %d pending booking(s)\n", len(bookings))
	}
	for _, booking := range bookings {
		fmt.Fprintf(out, "  %s (created %s)\n", booking.Key(), booking.CreatedAt.Format(time.RFC3339))
	}
}

// outputReconcileJSON outputs the result in JSON format for machine consumption.
func outputReconcileJSON(out io.Writer, bookings []*bookingDomain.Booking, dryRun bool) {
	keys := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		keys = append(keys, booking.Key())
	}

	result := map[string]interface{}{
		"count":    len(bookings),
		"dry_run":  dryRun,
		"bookings": keys,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(result)
}
