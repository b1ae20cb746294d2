// Package domain defines the notification message passed through the queue.
package domain

import (
	"encoding/json"
	"time"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	"github.com/allisson/bookings/internal/errors"
)

// ActionBookingCreated is the action carried by messages enqueued after a
// successful booking write.
const ActionBookingCreated = "booking_created"

// Message-specific error definitions.
var (
	// ErrMalformedMessage indicates a queue message body that cannot be decoded
	// or is missing its booking reference. Redelivering it can never succeed.
	ErrMalformedMessage = errors.Wrap(errors.ErrPoisonMessage, "malformed notification message")
)

// Message is the unit passed through the notification queue. The body is
// self-contained: it carries enough information for the consumer to act
// without re-reading the booking store, though the consumer re-reads anyway
// to skip bookings that were invalidated after enqueue.
type Message struct {
	// EventID and BookingID reference the booking this message is about.
	EventID   string `json:"event_id"`
	BookingID string `json:"booking_id"`
	// Action describes what happened (e.g., "booking_created").
	Action string `json:"action"`
	// Payload is a snapshot of the booking payload at enqueue time.
	Payload map[string]any `json:"payload,omitempty"`
	// CreatedAt is when the message was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingCreatedMessage builds the notification message for a freshly
// created booking.
func NewBookingCreatedMessage(booking *bookingDomain.Booking) *Message {
	return &Message{
		EventID:   booking.EventID,
		BookingID: booking.BookingID,
		Action:    ActionBookingCreated,
		Payload:   booking.Payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Encode serializes the message to its JSON wire format.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a queue message body. A body that cannot be decoded or
// lacks the booking reference is a poison message: it is reported as
// ErrMalformedMessage and must be dropped, never retried.
func DecodeMessage(body []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, ErrMalformedMessage
	}
	if msg.EventID == "" || msg.BookingID == "" {
		return nil, ErrMalformedMessage
	}
	return &msg, nil
}
