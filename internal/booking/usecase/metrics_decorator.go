package usecase

import (
	"context"
	"time"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	"github.com/allisson/bookings/internal/metrics"
)

// bookingUseCaseWithMetrics decorates BookingUseCase with metrics instrumentation.
type bookingUseCaseWithMetrics struct {
	next    BookingUseCase
	metrics metrics.BusinessMetrics
}

// NewBookingUseCaseWithMetrics wraps a BookingUseCase with metrics recording.
func NewBookingUseCaseWithMetrics(useCase BookingUseCase, m metrics.BusinessMetrics) BookingUseCase {
	return &bookingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for booking creation operations.
func (b *bookingUseCaseWithMetrics) Create(
	ctx context.Context,
	eventID, bookingID string,
	payload map[string]any,
	ttl int64,
) (*bookingDomain.Booking, error) {
	start := time.Now()
	booking, err := b.next.Create(ctx, eventID, bookingID, payload, ttl)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "booking_create", status)
	b.metrics.RecordDuration(ctx, "booking", "booking_create", time.Since(start), status)

	return booking, err
}

// Get records metrics for booking retrieval operations.
func (b *bookingUseCaseWithMetrics) Get(
	ctx context.Context,
	eventID, bookingID string,
) (*bookingDomain.Booking, error) {
	start := time.Now()
	booking, err := b.next.Get(ctx, eventID, bookingID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "booking_get", status)
	b.metrics.RecordDuration(ctx, "booking", "booking_get", time.Since(start), status)

	return booking, err
}

// List records metrics for booking list operations.
func (b *bookingUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*bookingDomain.Booking, error) {
	start := time.Now()
	bookings, err := b.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "booking_list", status)
	b.metrics.RecordDuration(ctx, "booking", "booking_list", time.Since(start), status)

	return bookings, err
}

// ListByEvent records metrics for per-event booking list operations.
func (b *bookingUseCaseWithMetrics) ListByEvent(
	ctx context.Context,
	eventID string,
) ([]*bookingDomain.Booking, error) {
	start := time.Now()
	bookings, err := b.next.ListByEvent(ctx, eventID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "booking_list_by_event", status)
	b.metrics.RecordDuration(ctx, "booking", "booking_list_by_event", time.Since(start), status)

	return bookings, err
}

// MarkFailed records metrics for booking invalidation operations.
func (b *bookingUseCaseWithMetrics) MarkFailed(ctx context.Context, eventID, bookingID string) error {
	start := time.Now()
	err := b.next.MarkFailed(ctx, eventID, bookingID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "booking_mark_failed", status)
	b.metrics.RecordDuration(ctx, "booking", "booking_mark_failed", time.Since(start), status)

	return err
}

// ReenqueuePending records metrics for reconciliation sweeps.
func (b *bookingUseCaseWithMetrics) ReenqueuePending(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
	dryRun bool,
) ([]*bookingDomain.Booking, error) {
	start := time.Now()
	bookings, err := b.next.ReenqueuePending(ctx, olderThan, limit, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "booking_reenqueue_pending", status)
	b.metrics.RecordDuration(ctx, "booking", "booking_reenqueue_pending", time.Since(start), status)

	return bookings, err
}
