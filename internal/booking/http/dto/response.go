// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
)

// BookingResponse represents a booking in API responses.
type BookingResponse struct {
	EventID   string         `json:"event_id"`
	BookingID string         `json:"booking_id"`
	Status    string         `json:"status"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
	TTL       int64          `json:"ttl,omitempty"`
}

// MapBookingToResponse converts a domain booking to an API response.
func MapBookingToResponse(booking *bookingDomain.Booking) BookingResponse {
	return BookingResponse{
		EventID:   booking.EventID,
		BookingID: booking.BookingID,
		Status:    string(booking.Status),
		Payload:   booking.Payload,
		CreatedAt: booking.CreatedAt,
		TTL:       booking.TTL,
	}
}
