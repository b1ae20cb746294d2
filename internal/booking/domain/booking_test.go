package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBooking(t *testing.T) {
	t.Run("uses caller-supplied booking id", func(t *testing.T) {
		b := NewBooking("evt-1", "bk-1", map[string]any{"seats": 2})

		assert.Equal(t, "evt-1", b.EventID)
		assert.Equal(t, "bk-1", b.BookingID)
		assert.Equal(t, StatusPending, b.Status)
		assert.False(t, b.CreatedAt.IsZero())
		assert.Zero(t, b.TTL)
	})

	t.Run("generates booking id when empty", func(t *testing.T) {
		b := NewBooking("evt-1", "", map[string]any{"seats": 2})

		assert.True(t, strings.HasPrefix(b.BookingID, "booking-"))
		assert.Greater(t, len(b.BookingID), len("booking-"))
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		a := NewBooking("evt-1", "", nil)
		b := NewBooking("evt-1", "", nil)
		assert.NotEqual(t, a.BookingID, b.BookingID)
	})
}

func TestBookingKey(t *testing.T) {
	b := NewBooking("evt-1", "bk-1", nil)
	assert.Equal(t, "evt-1/bk-1", b.Key())
	assert.Equal(t, "evt-1/bk-1", BookingKey("evt-1", "bk-1"))
}

func TestPayloadEquals(t *testing.T) {
	b := NewBooking("evt-1", "bk-1", map[string]any{"seats": 2, "name": "John Doe"})

	t.Run("equal payloads match regardless of key order", func(t *testing.T) {
		assert.True(t, b.PayloadEquals(map[string]any{"name": "John Doe", "seats": 2}))
	})

	t.Run("equivalent numeric representations match", func(t *testing.T) {
		// Payloads decoded from JSON carry float64 numbers.
		assert.True(t, b.PayloadEquals(map[string]any{"name": "John Doe", "seats": float64(2)}))
	})

	t.Run("different value does not match", func(t *testing.T) {
		assert.False(t, b.PayloadEquals(map[string]any{"name": "John Doe", "seats": 3}))
	})

	t.Run("missing key does not match", func(t *testing.T) {
		assert.False(t, b.PayloadEquals(map[string]any{"seats": 2}))
	})

	t.Run("nil payloads match", func(t *testing.T) {
		empty := NewBooking("evt-1", "bk-2", nil)
		assert.True(t, empty.PayloadEquals(nil))
	})
}
