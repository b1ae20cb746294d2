package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
)

// MockBookingUseCase is a mock implementation of BookingUseCase for testing.
type MockBookingUseCase struct {
	mock.Mock
}

// Create mocks the Create method of BookingUseCase.
func (m *MockBookingUseCase) Create(
	ctx context.Context,
	eventID, bookingID string,
	payload map[string]any,
	ttl int64,
) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, eventID, bookingID, payload, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

// Get mocks the Get method of BookingUseCase.
func (m *MockBookingUseCase) Get(
	ctx context.Context,
	eventID, bookingID string,
) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, eventID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

// List mocks the List method of BookingUseCase.
func (m *MockBookingUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

// ListByEvent mocks the ListByEvent method of BookingUseCase.
func (m *MockBookingUseCase) ListByEvent(
	ctx context.Context,
	eventID string,
) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

// MarkFailed mocks the MarkFailed method of BookingUseCase.
func (m *MockBookingUseCase) MarkFailed(ctx context.Context, eventID, bookingID string) error {
	args := m.Called(ctx, eventID, bookingID)
	return args.Error(0)
}

// ReenqueuePending mocks the ReenqueuePending method of BookingUseCase.
func (m *MockBookingUseCase) ReenqueuePending(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
	dryRun bool,
) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, olderThan, limit, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}
