// Package http provides HTTP handlers for booking operations.
// Booking creation follows write-then-notify: the record becomes durable
// before the notification is enqueued, and the response reflects the durable
// state regardless of queue health.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bookings/internal/booking/http/dto"
	bookingUseCase "github.com/allisson/bookings/internal/booking/usecase"
	"github.com/allisson/bookings/internal/httputil"
	customValidation "github.com/allisson/bookings/internal/validation"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	bookingUseCase bookingUseCase.BookingUseCase
	logger         *slog.Logger
}

// NewBookingHandler creates a new booking handler with required dependencies.
func NewBookingHandler(
	useCase bookingUseCase.BookingUseCase,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: useCase,
		logger:         logger,
	}
}

// CreateHandler creates a new booking and enqueues its notification.
// POST /bookings
// Returns 201 Created with the booking, also for an identical retry of an
// already created booking. A key collision with a different payload returns
// 409 Conflict.
func (h *BookingHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	booking, err := h.bookingUseCase.Create(c.Request.Context(), req.EventID, req.BookingID, req.Payload, req.TTL)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapBookingToResponse(booking))
}

// ListHandler lists bookings, optionally filtered by event.
// GET /bookings?event_id=X&offset=N&limit=N
// Returns 200 OK with bookings ordered by creation time.
func (h *BookingHandler) ListHandler(c *gin.Context) {
	if eventID := c.Query("event_id"); eventID != "" {
		bookings, err := h.bookingUseCase.ListByEvent(c.Request.Context(), eventID)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapBookingsToListResponse(bookings))
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	bookings, err := h.bookingUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBookingsToListResponse(bookings))
}

// GetHandler retrieves a single booking by its composite key.
// GET /bookings/:event_id/:booking_id
// Returns 200 OK with the booking or 404 Not Found.
func (h *BookingHandler) GetHandler(c *gin.Context) {
	eventID := c.Param("event_id")
	bookingID := c.Param("booking_id")

	booking, err := h.bookingUseCase.Get(c.Request.Context(), eventID, bookingID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBookingToResponse(booking))
}
