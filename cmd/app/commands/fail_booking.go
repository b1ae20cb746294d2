package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/bookings/internal/app"
	"github.com/allisson/bookings/internal/config"
)

// RunFailBooking marks a booking as failed through an explicit compensating
// action. Committed bookings are never rolled back or deleted; failing a
// booking is the operator's way to invalidate a record that should not have
// been accepted.
func RunFailBooking(ctx context.Context, out io.Writer, eventID, bookingID string) error {
	if eventID == "" {
		return fmt.Errorf("event-id is required")
	}
	if bookingID == "" {
		return fmt.Errorf("booking-id is required")
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("failing booking",
		slog.String("event_id", eventID),
		slog.String("booking_id", bookingID),
	)

	defer closeContainer(container, logger)

	useCase, err := container.BookingUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize booking use case: %w", err)
	}

	if err := useCase.MarkFailed(ctx, eventID, bookingID); err != nil {
		return fmt.Errorf("failed to mark booking as failed: %w", err)
	}

	fmt.Fprintf(out, "Booking %s/%s marked as failed\n", eventID, bookingID)
	return nil
}
