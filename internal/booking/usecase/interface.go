// Package usecase implements business logic orchestration for bookings.
// The central flow is write-then-notify: a booking is made durable through a
// conditional store write first, and only then is a notification enqueued.
// The store write is the durability boundary; enqueueing is best-effort and
// independently retryable.
package usecase

import (
	"context"
	"time"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
)

// BookingRepository defines the interface for booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *bookingDomain.Booking) error
	Get(ctx context.Context, eventID, bookingID string) (*bookingDomain.Booking, error)
	UpdateStatus(ctx context.Context, eventID, bookingID string, status bookingDomain.Status) error
	ListByEvent(ctx context.Context, eventID string) ([]*bookingDomain.Booking, error)
	List(ctx context.Context, offset, limit int) ([]*bookingDomain.Booking, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*bookingDomain.Booking, error)
}

// NotificationPublisher defines the interface for enqueueing booking
// notifications.
type NotificationPublisher interface {
	Publish(ctx context.Context, msg *notificationDomain.Message) error
}

// BookingUseCase defines the interface for booking business logic.
type BookingUseCase interface {
	// Create persists a new booking and enqueues its notification. A repeated
	// request with the same key and an identical payload returns the existing
	// booking without enqueueing again; the same key with a different payload
	// fails with bookingDomain.ErrPayloadMismatch. A non-zero ttl (epoch
	// seconds) is stored with the record but never acted upon.
	Create(ctx context.Context, eventID, bookingID string, payload map[string]any, ttl int64) (*bookingDomain.Booking, error)
	Get(ctx context.Context, eventID, bookingID string) (*bookingDomain.Booking, error)
	List(ctx context.Context, offset, limit int) ([]*bookingDomain.Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]*bookingDomain.Booking, error)
	// MarkFailed invalidates a booking through an explicit compensating action.
	// Committed writes are never rolled back; this is the only path that turns
	// a booking into failed state.
	MarkFailed(ctx context.Context, eventID, bookingID string) error
	// ReenqueuePending re-derives notifications from durable state: bookings
	// still pending after olderThan get their notification published again.
	// With dryRun set it only reports the candidates.
	ReenqueuePending(ctx context.Context, olderThan time.Duration, limit int, dryRun bool) ([]*bookingDomain.Booking, error)
}
