// Package domain defines core domain models and errors for bookings.
package domain

import (
	"github.com/allisson/bookings/internal/errors"
)

// Booking-specific error definitions.
var (
	// ErrBookingNotFound indicates no booking exists for the given key.
	ErrBookingNotFound = errors.Wrap(errors.ErrNotFound, "booking not found")

	// ErrBookingExists indicates a booking with the same key is already stored.
	ErrBookingExists = errors.Wrap(errors.ErrConflict, "booking already exists")

	// ErrPayloadMismatch indicates a duplicate submission whose payload diverges
	// from the stored record. The original record is left unchanged.
	ErrPayloadMismatch = errors.Wrap(errors.ErrConflict, "booking payload differs from existing record")
)
