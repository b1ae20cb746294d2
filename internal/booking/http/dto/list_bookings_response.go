// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
)

// ListBookingsResponse represents a list of bookings in API responses.
type ListBookingsResponse struct {
	Data []BookingResponse `json:"data"`
}

// MapBookingsToListResponse converts a slice of domain bookings to a list response.
func MapBookingsToListResponse(bookings []*bookingDomain.Booking) ListBookingsResponse {
	data := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		data = append(data, MapBookingToResponse(booking))
	}

	return ListBookingsResponse{
		Data: data,
	}
}
