// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/bookings/internal/validation"
)

// CreateBookingRequest contains the parameters for creating a booking.
// BookingID is optional; when omitted the server generates one.
type CreateBookingRequest struct {
	EventID   string         `json:"event_id"`
	BookingID string         `json:"booking_id"`
	Payload   map[string]any `json:"payload"`
	// TTL is an optional expiry timestamp (epoch seconds) stored with the
	// record. Nothing is deleted automatically.
	TTL int64 `json:"ttl"`
}

// Validate checks if the create booking request is valid.
func (r *CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventID,
			validation.Required,
			customValidation.Identifier,
		),
		validation.Field(&r.BookingID,
			customValidation.Identifier,
		),
		validation.Field(&r.Payload,
			validation.Required,
			validation.Length(1, 0), // At least one payload field
		),
		validation.Field(&r.TTL,
			validation.Min(int64(0)),
		),
	)
}
