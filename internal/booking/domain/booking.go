// Package domain defines the core domain models and types for bookings.
// A booking is the durable unit of state: one record per (event_id, booking_id)
// pair, created exactly once through a conditional store write.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	// StatusPending marks a booking whose notification has not been enqueued yet.
	StatusPending Status = "pending"
	// StatusConfirmed marks a booking whose notification was handed to the queue.
	StatusConfirmed Status = "confirmed"
	// StatusFailed marks a booking invalidated by an explicit compensating action.
	StatusFailed Status = "failed"
)

// Booking represents a durable reservation record against an event.
type Booking struct {
	// EventID identifies the event being booked (partition component of the key).
	EventID string
	// BookingID identifies the reservation within the event (range component of
	// the key). Caller-supplied or server-generated.
	BookingID string
	// Status is the lifecycle marker.
	Status Status
	// Payload holds opaque booking details (attendee, seat count, etc.). The core
	// requires it to be present but does not interpret it.
	Payload map[string]any
	// CreatedAt is the UTC timestamp when the booking was created; set once.
	CreatedAt time.Time
	// TTL is an optional epoch time reserved for future expiry. Zero means no
	// expiry; nothing is ever deleted automatically.
	TTL int64
}

// NewBooking creates a booking with status pending. When bookingID is empty a
// server-generated id of the form "booking-<uuid>" is used.
func NewBooking(eventID, bookingID string, payload map[string]any) *Booking {
	if bookingID == "" {
		bookingID = fmt.Sprintf("booking-%s", uuid.Must(uuid.NewV7()))
	}
	return &Booking{
		EventID:   eventID,
		BookingID: bookingID,
		Status:    StatusPending,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Key returns the composite document key for the booking.
func (b *Booking) Key() string {
	return BookingKey(b.EventID, b.BookingID)
}

// PayloadEquals reports whether the booking payload matches other.
// Both payloads are normalized through JSON encoding, so key order and
// equivalent numeric representations do not cause false mismatches.
func (b *Booking) PayloadEquals(other map[string]any) bool {
	return bytes.Equal(normalizePayload(b.Payload), normalizePayload(other))
}

// BookingKey derives the composite document key from the pair that uniquely
// identifies a booking.
func BookingKey(eventID, bookingID string) string {
	return eventID + "/" + bookingID
}

// normalizePayload encodes a payload to canonical JSON. encoding/json sorts
// map keys, which makes the encoding stable for comparison.
func normalizePayload(payload map[string]any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
