// Package repository provides data persistence implementations for booking entities.
package repository

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"gocloud.dev/docstore"
	"gocloud.dev/gcerrors"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	apperrors "github.com/allisson/bookings/internal/errors"
)

// bookingDoc is the document representation of a booking. The "id" field is the
// composite key (event_id/booking_id); event_id and booking_id are kept as
// separate attributes so the collection can be queried by partition.
type bookingDoc struct {
	ID        string         `docstore:"id"`
	EventID   string         `docstore:"event_id"`
	BookingID string         `docstore:"booking_id"`
	Status    string         `docstore:"status"`
	Payload   map[string]any `docstore:"payload"`
	CreatedAt time.Time      `docstore:"created_at"`
	TTL       int64          `docstore:"ttl"`
}

// DocstoreBookingRepository handles booking persistence through a docstore
// collection (DynamoDB in production, in-memory in tests).
type DocstoreBookingRepository struct {
	coll      *docstore.Collection
	opTimeout time.Duration
}

// NewDocstoreBookingRepository creates a new DocstoreBookingRepository.
// opTimeout bounds every store call; zero disables the bound.
func NewDocstoreBookingRepository(
	coll *docstore.Collection,
	opTimeout time.Duration,
) *DocstoreBookingRepository {
	return &DocstoreBookingRepository{
		coll:      coll,
		opTimeout: opTimeout,
	}
}

// Create inserts a new booking with a do-not-overwrite-if-present check.
// Returns domain.ErrBookingExists when the (event_id, booking_id) key is
// already taken; the existing record is never touched.
func (r *DocstoreBookingRepository) Create(ctx context.Context, booking *bookingDomain.Booking) error {
	ctx, cancel := r.boundCtx(ctx)
	defer cancel()

	doc := toDoc(booking)
	if err := r.coll.Create(ctx, doc); err != nil {
		if gcerrors.Code(err) == gcerrors.AlreadyExists {
			return bookingDomain.ErrBookingExists
		}
		return apperrors.Wrap(apperrors.ErrDependency, err.Error())
	}
	return nil
}

// Get retrieves a booking by its (event_id, booking_id) key.
func (r *DocstoreBookingRepository) Get(
	ctx context.Context,
	eventID, bookingID string,
) (*bookingDomain.Booking, error) {
	ctx, cancel := r.boundCtx(ctx)
	defer cancel()

	doc := &bookingDoc{ID: bookingDomain.BookingKey(eventID, bookingID)}
	if err := r.coll.Get(ctx, doc); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, bookingDomain.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDependency, err.Error())
	}
	return toDomain(doc), nil
}

// UpdateStatus sets the status of an existing booking.
func (r *DocstoreBookingRepository) UpdateStatus(
	ctx context.Context,
	eventID, bookingID string,
	status bookingDomain.Status,
) error {
	ctx, cancel := r.boundCtx(ctx)
	defer cancel()

	doc := &bookingDoc{ID: bookingDomain.BookingKey(eventID, bookingID)}
	if err := r.coll.Update(ctx, doc, docstore.Mods{"status": string(status)}); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return bookingDomain.ErrBookingNotFound
		}
		return apperrors.Wrap(apperrors.ErrDependency, err.Error())
	}
	return nil
}

// ListByEvent retrieves all bookings for an event (partition query), ordered by
// creation time.
func (r *DocstoreBookingRepository) ListByEvent(
	ctx context.Context,
	eventID string,
) ([]*bookingDomain.Booking, error) {
	ctx, cancel := r.boundCtx(ctx)
	defer cancel()

	iter := r.coll.Query().Where("event_id", "=", eventID).Get(ctx)
	return drainIter(ctx, iter, 0, 0)
}

// List retrieves bookings ordered by creation time with pagination.
func (r *DocstoreBookingRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*bookingDomain.Booking, error) {
	ctx, cancel := r.boundCtx(ctx)
	defer cancel()

	iter := r.coll.Query().Get(ctx)
	return drainIter(ctx, iter, offset, limit)
}

// ListPendingBefore retrieves bookings that are still pending and were created
// before the cutoff. Used by the reconciliation sweep to re-derive missing
// notifications from durable state.
func (r *DocstoreBookingRepository) ListPendingBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*bookingDomain.Booking, error) {
	ctx, cancel := r.boundCtx(ctx)
	defer cancel()

	iter := r.coll.Query().Where("status", "=", string(bookingDomain.StatusPending)).Get(ctx)
	pending, err := drainIter(ctx, iter, 0, 0)
	if err != nil {
		return nil, err
	}

	var bookings []*bookingDomain.Booking
	for _, b := range pending {
		if b.CreatedAt.Before(cutoff) {
			bookings = append(bookings, b)
		}
		if limit > 0 && len(bookings) >= limit {
			break
		}
	}
	return bookings, nil
}

// boundCtx applies the repository operation timeout when configured.
func (r *DocstoreBookingRepository) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

// drainIter collects all documents from the iterator, sorts them by creation
// time, and applies offset/limit. Ordering is done client-side because docstore
// drivers disagree on which fields support OrderBy.
func drainIter(
	ctx context.Context,
	iter *docstore.DocumentIterator,
	offset, limit int,
) ([]*bookingDomain.Booking, error) {
	defer iter.Stop()

	var bookings []*bookingDomain.Booking
	for {
		var doc bookingDoc
		err := iter.Next(ctx, &doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDependency, err.Error())
		}
		bookings = append(bookings, toDomain(&doc))
	}

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].Key() < bookings[j].Key()
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})

	if offset > 0 {
		if offset >= len(bookings) {
			return nil, nil
		}
		bookings = bookings[offset:]
	}
	if limit > 0 && len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

// toDoc converts a domain booking to its document representation.
func toDoc(b *bookingDomain.Booking) *bookingDoc {
	return &bookingDoc{
		ID:        b.Key(),
		EventID:   b.EventID,
		BookingID: b.BookingID,
		Status:    string(b.Status),
		Payload:   b.Payload,
		CreatedAt: b.CreatedAt,
		TTL:       b.TTL,
	}
}

// toDomain converts a document to a domain booking.
func toDomain(doc *bookingDoc) *bookingDomain.Booking {
	return &bookingDomain.Booking{
		EventID:   doc.EventID,
		BookingID: doc.BookingID,
		Status:    bookingDomain.Status(doc.Status),
		Payload:   doc.Payload,
		CreatedAt: doc.CreatedAt,
		TTL:       doc.TTL,
	}
}
