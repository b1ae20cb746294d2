package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	"github.com/allisson/bookings/internal/booking/usecase/mocks"
	apperrors "github.com/allisson/bookings/internal/errors"
	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBookingUseCase_Create(t *testing.T) {
	ctx := context.Background()
	payload := map[string]any{"user_name": "John Doe", "user_email": "john@example.com", "seats": 2}

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
			Return(nil).
			Once()
		mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(msg *notificationDomain.Message) bool {
			return msg.EventID == "evt-1" && msg.BookingID == "bk-1" &&
				msg.Action == notificationDomain.ActionBookingCreated
		})).Return(nil).Once()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-1", bookingDomain.StatusConfirmed).
			Return(nil).
			Once()

		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 0)
		require.NoError(t, err)
		assert.Equal(t, "evt-1", booking.EventID)
		assert.Equal(t, "bk-1", booking.BookingID)
		assert.Equal(t, bookingDomain.StatusConfirmed, booking.Status)

		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("Success_GeneratedBookingID", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", mock.AnythingOfType("string"), bookingDomain.StatusConfirmed).
			Return(nil).
			Once()

		booking, err := useCase.Create(ctx, "evt-1", "", payload, 0)
		require.NoError(t, err)
		assert.Contains(t, booking.BookingID, "booking-")

		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("Success_WithTTL", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *bookingDomain.Booking) bool {
			return b.TTL == int64(1767225600)
		})).Return(nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-1", bookingDomain.StatusConfirmed).
			Return(nil).
			Once()

		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 1767225600)
		require.NoError(t, err)
		assert.Equal(t, int64(1767225600), booking.TTL)

		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("PublishFailure_BookingStaysPending", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).
			Return(apperrors.Wrap(apperrors.ErrDependency, "queue unavailable")).
			Once()

		// The booking is durable; a failed enqueue must not fail the request.
		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 0)
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.StatusPending, booking.Status)

		mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("ConfirmFailure_BookingStaysPending", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-1", bookingDomain.StatusConfirmed).
			Return(apperrors.Wrap(apperrors.ErrDependency, "store unavailable")).
			Once()

		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 0)
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.StatusPending, booking.Status)

		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("Duplicate_IdenticalPayload", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		existing := bookingDomain.NewBooking("evt-1", "bk-1", payload)
		existing.Status = bookingDomain.StatusConfirmed

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
			Return(bookingDomain.ErrBookingExists).
			Once()
		mockRepo.On("Get", mock.Anything, "evt-1", "bk-1").Return(existing, nil).Once()

		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 0)
		require.NoError(t, err)
		assert.Equal(t, existing, booking)

		// An identical retry must not enqueue a second notification.
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate_DifferentPayload", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		existing := bookingDomain.NewBooking("evt-1", "bk-1", map[string]any{"seats": 1})

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
			Return(bookingDomain.ErrBookingExists).
			Once()
		mockRepo.On("Get", mock.Anything, "evt-1", "bk-1").Return(existing, nil).Once()

		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 0)
		assert.Nil(t, booking)
		assert.ErrorIs(t, err, bookingDomain.ErrPayloadMismatch)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
			Return(apperrors.Wrap(apperrors.ErrDependency, "store unavailable")).
			Once()

		booking, err := useCase.Create(ctx, "evt-1", "bk-1", payload, 0)
		assert.Nil(t, booking)
		assert.ErrorIs(t, err, apperrors.ErrDependency)

		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

func TestBookingUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		useCase := NewBookingUseCase(mockRepo, &mocks.MockNotificationPublisher{}, testLogger())

		existing := bookingDomain.NewBooking("evt-1", "bk-1", map[string]any{"seats": 2})
		mockRepo.On("Get", mock.Anything, "evt-1", "bk-1").Return(existing, nil).Once()

		booking, err := useCase.Get(ctx, "evt-1", "bk-1")
		require.NoError(t, err)
		assert.Equal(t, existing, booking)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		useCase := NewBookingUseCase(mockRepo, &mocks.MockNotificationPublisher{}, testLogger())

		mockRepo.On("Get", mock.Anything, "evt-1", "missing").
			Return(nil, bookingDomain.ErrBookingNotFound).
			Once()

		booking, err := useCase.Get(ctx, "evt-1", "missing")
		assert.Nil(t, booking)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestBookingUseCase_MarkFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		useCase := NewBookingUseCase(mockRepo, &mocks.MockNotificationPublisher{}, testLogger())

		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-1", bookingDomain.StatusFailed).
			Return(nil).
			Once()

		err := useCase.MarkFailed(ctx, "evt-1", "bk-1")
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		useCase := NewBookingUseCase(mockRepo, &mocks.MockNotificationPublisher{}, testLogger())

		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "missing", bookingDomain.StatusFailed).
			Return(bookingDomain.ErrBookingNotFound).
			Once()

		err := useCase.MarkFailed(ctx, "evt-1", "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestBookingUseCase_ReenqueuePending(t *testing.T) {
	ctx := context.Background()

	t.Run("DryRun", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		pending := []*bookingDomain.Booking{
			bookingDomain.NewBooking("evt-1", "bk-1", map[string]any{"seats": 1}),
		}
		mockRepo.On("ListPendingBefore", mock.Anything, mock.AnythingOfType("time.Time"), 100).
			Return(pending, nil).
			Once()

		bookings, err := useCase.ReenqueuePending(ctx, time.Hour, 100, true)
		require.NoError(t, err)
		assert.Equal(t, pending, bookings)

		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PublishesAndConfirms", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		first := bookingDomain.NewBooking("evt-1", "bk-1", map[string]any{"seats": 1})
		second := bookingDomain.NewBooking("evt-1", "bk-2", map[string]any{"seats": 2})
		mockRepo.On("ListPendingBefore", mock.Anything, mock.AnythingOfType("time.Time"), 0).
			Return([]*bookingDomain.Booking{first, second}, nil).
			Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Twice()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-1", bookingDomain.StatusConfirmed).
			Return(nil).
			Once()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-2", bookingDomain.StatusConfirmed).
			Return(nil).
			Once()

		bookings, err := useCase.ReenqueuePending(ctx, time.Hour, 0, false)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)

		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("PublishFailure_ContinuesSweep", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		first := bookingDomain.NewBooking("evt-1", "bk-1", map[string]any{"seats": 1})
		second := bookingDomain.NewBooking("evt-1", "bk-2", map[string]any{"seats": 2})
		mockRepo.On("ListPendingBefore", mock.Anything, mock.AnythingOfType("time.Time"), 0).
			Return([]*bookingDomain.Booking{first, second}, nil).
			Once()
		mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(msg *notificationDomain.Message) bool {
			return msg.BookingID == "bk-1"
		})).Return(apperrors.Wrap(apperrors.ErrDependency, "queue unavailable")).Once()
		mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(msg *notificationDomain.Message) bool {
			return msg.BookingID == "bk-2"
		})).Return(nil).Once()
		mockRepo.On("UpdateStatus", mock.Anything, "evt-1", "bk-2", bookingDomain.StatusConfirmed).
			Return(nil).
			Once()

		bookings, err := useCase.ReenqueuePending(ctx, time.Hour, 0, false)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "bk-2", bookings[0].BookingID)

		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("ListFailure", func(t *testing.T) {
		mockRepo := &mocks.MockBookingRepository{}
		mockPublisher := &mocks.MockNotificationPublisher{}
		useCase := NewBookingUseCase(mockRepo, mockPublisher, testLogger())

		mockRepo.On("ListPendingBefore", mock.Anything, mock.AnythingOfType("time.Time"), 0).
			Return(nil, apperrors.Wrap(apperrors.ErrDependency, "store unavailable")).
			Once()

		bookings, err := useCase.ReenqueuePending(ctx, time.Hour, 0, false)
		assert.Nil(t, bookings)
		assert.ErrorIs(t, err, apperrors.ErrDependency)
		mockRepo.AssertExpectations(t)
	})
}
