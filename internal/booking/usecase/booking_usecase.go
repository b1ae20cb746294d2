package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
)

// bookingUseCase implements the BookingUseCase interface.
type bookingUseCase struct {
	bookingRepo BookingRepository
	publisher   NotificationPublisher
	logger      *slog.Logger
}

// NewBookingUseCase creates a new BookingUseCase.
func NewBookingUseCase(
	bookingRepo BookingRepository,
	publisher NotificationPublisher,
	logger *slog.Logger,
) BookingUseCase {
	return &bookingUseCase{
		bookingRepo: bookingRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create persists the booking with a conditional write, then enqueues the
// notification. The conditional write is the single uniqueness check: a lost
// race surfaces as ErrBookingExists and is resolved by payload comparison.
func (b *bookingUseCase) Create(
	ctx context.Context,
	eventID, bookingID string,
	payload map[string]any,
	ttl int64,
) (*bookingDomain.Booking, error) {
	booking := bookingDomain.NewBooking(eventID, bookingID, payload)
	booking.TTL = ttl

	if err := b.bookingRepo.Create(ctx, booking); err != nil {
		if !errors.Is(err, bookingDomain.ErrBookingExists) {
			return nil, err
		}
		existing, getErr := b.bookingRepo.Get(ctx, booking.EventID, booking.BookingID)
		if getErr != nil {
			return nil, getErr
		}
		if !existing.PayloadEquals(payload) {
			return nil, bookingDomain.ErrPayloadMismatch
		}
		// Identical retry: the first write already enqueued, do not enqueue again.
		return existing, nil
	}

	b.enqueueNotification(ctx, booking)
	return booking, nil
}

// Get retrieves a booking by its (event_id, booking_id) key.
func (b *bookingUseCase) Get(
	ctx context.Context,
	eventID, bookingID string,
) (*bookingDomain.Booking, error) {
	return b.bookingRepo.Get(ctx, eventID, bookingID)
}

// List retrieves bookings ordered by creation time with pagination.
func (b *bookingUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*bookingDomain.Booking, error) {
	return b.bookingRepo.List(ctx, offset, limit)
}

// ListByEvent retrieves all bookings for a single event.
func (b *bookingUseCase) ListByEvent(
	ctx context.Context,
	eventID string,
) ([]*bookingDomain.Booking, error) {
	return b.bookingRepo.ListByEvent(ctx, eventID)
}

// MarkFailed flips the booking to failed state.
func (b *bookingUseCase) MarkFailed(ctx context.Context, eventID, bookingID string) error {
	if err := b.bookingRepo.UpdateStatus(ctx, eventID, bookingID, bookingDomain.StatusFailed); err != nil {
		return err
	}
	b.logger.InfoContext(ctx, "booking marked as failed",
		slog.String("event_id", eventID),
		slog.String("booking_id", bookingID),
	)
	return nil
}

// ReenqueuePending publishes notifications for bookings stuck in pending state
// longer than olderThan. Publish failures are logged per booking and do not
// stop the sweep.
func (b *bookingUseCase) ReenqueuePending(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
	dryRun bool,
) ([]*bookingDomain.Booking, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	pending, err := b.bookingRepo.ListPendingBefore(ctx, cutoff, limit)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return pending, nil
	}

	var reenqueued []*bookingDomain.Booking
	for _, booking := range pending {
		msg := notificationDomain.NewBookingCreatedMessage(booking)
		if err := b.publisher.Publish(ctx, msg); err != nil {
			b.logger.ErrorContext(ctx, "failed to re-enqueue notification",
				slog.String("event_id", booking.EventID),
				slog.String("booking_id", booking.BookingID),
				slog.String("error", err.Error()),
			)
			continue
		}
		b.confirm(ctx, booking)
		reenqueued = append(reenqueued, booking)
	}
	return reenqueued, nil
}

// enqueueNotification publishes the booking-created message. The booking is
// already durable, so a publish failure is logged for alerting and later
// reconciliation; the request still succeeds with the booking left pending.
func (b *bookingUseCase) enqueueNotification(ctx context.Context, booking *bookingDomain.Booking) {
	msg := notificationDomain.NewBookingCreatedMessage(booking)
	if err := b.publisher.Publish(ctx, msg); err != nil {
		b.logger.ErrorContext(ctx, "failed to enqueue notification",
			slog.String("event_id", booking.EventID),
			slog.String("booking_id", booking.BookingID),
			slog.String("error", err.Error()),
		)
		return
	}
	b.confirm(ctx, booking)
}

// confirm records that the notification was handed to the queue. A failed
// status update leaves the booking pending, which the reconciliation sweep
// resolves with a duplicate notification at worst.
func (b *bookingUseCase) confirm(ctx context.Context, booking *bookingDomain.Booking) {
	err := b.bookingRepo.UpdateStatus(ctx, booking.EventID, booking.BookingID, bookingDomain.StatusConfirmed)
	if err != nil {
		b.logger.WarnContext(ctx, "failed to confirm booking after enqueue",
			slog.String("event_id", booking.EventID),
			slog.String("booking_id", booking.BookingID),
			slog.String("error", err.Error()),
		)
		return
	}
	booking.Status = bookingDomain.StatusConfirmed
}
