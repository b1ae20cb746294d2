// Package mocks provides mock implementations for testing booking use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
)

// MockBookingRepository is a mock implementation of BookingRepository for testing.
type MockBookingRepository struct {
	mock.Mock
}

// Create mocks the Create method of BookingRepository.
func (m *MockBookingRepository) Create(ctx context.Context, booking *bookingDomain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// Get mocks the Get method of BookingRepository.
func (m *MockBookingRepository) Get(
	ctx context.Context,
	eventID, bookingID string,
) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, eventID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method of BookingRepository.
func (m *MockBookingRepository) UpdateStatus(
	ctx context.Context,
	eventID, bookingID string,
	status bookingDomain.Status,
) error {
	args := m.Called(ctx, eventID, bookingID, status)
	return args.Error(0)
}

// ListByEvent mocks the ListByEvent method of BookingRepository.
func (m *MockBookingRepository) ListByEvent(
	ctx context.Context,
	eventID string,
) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

// List mocks the List method of BookingRepository.
func (m *MockBookingRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

// ListPendingBefore mocks the ListPendingBefore method of BookingRepository.
func (m *MockBookingRepository) ListPendingBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

// MockNotificationPublisher is a mock implementation of NotificationPublisher for testing.
type MockNotificationPublisher struct {
	mock.Mock
}

// Publish mocks the Publish method of NotificationPublisher.
func (m *MockNotificationPublisher) Publish(
	ctx context.Context,
	msg *notificationDomain.Message,
) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
