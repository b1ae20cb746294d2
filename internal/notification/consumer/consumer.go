// Package consumer implements the notification queue consumer.
// Delivery is at-least-once: every message is processed independently and
// either acknowledged (done, skipped or poison) or made redeliverable again.
// Handlers therefore tolerate duplicates and out-of-order arrival.
package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	bookingDomain "github.com/allisson/bookings/internal/booking/domain"
	apperrors "github.com/allisson/bookings/internal/errors"
	"github.com/allisson/bookings/internal/metrics"
	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
	"github.com/allisson/bookings/internal/notification/notifier"
	"github.com/allisson/bookings/internal/notification/queue"
)

// receiveRetryDelay spaces out receive retries after a queue failure.
const receiveRetryDelay = time.Second

// Per-message processing outcomes.
const (
	outcomeSuccess = "success"
	outcomePoison  = "poison"
	outcomeDropped = "dropped"
	outcomeSkipped = "skipped"
	outcomeRetry   = "retry"
)

// Receiver provides batches of queue messages.
type Receiver interface {
	ReceiveBatch(ctx context.Context, max int, window time.Duration) ([]*queue.Message, error)
}

// BookingReader looks up the durable booking state for a notification.
type BookingReader interface {
	Get(ctx context.Context, eventID, bookingID string) (*bookingDomain.Booking, error)
}

// Config holds the consumer tuning knobs.
type Config struct {
	// BatchSize is the maximum number of messages processed per batch.
	BatchSize int
	// BatchWindow bounds how long a partial batch waits for more messages.
	BatchWindow time.Duration
	// MaxDeliveryAttempts drops a message after this many deliveries when the
	// queue reports an attempt count. Zero disables the cap.
	MaxDeliveryAttempts int
}

// Consumer drains the notification queue in batches and delivers each
// notification through the Notifier.
type Consumer struct {
	receiver Receiver
	bookings BookingReader
	notifier notifier.Notifier
	metrics  metrics.BusinessMetrics
	logger   *slog.Logger
	config   Config
}

// NewConsumer creates a new Consumer.
func NewConsumer(
	receiver Receiver,
	bookings BookingReader,
	n notifier.Notifier,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
	config Config,
) *Consumer {
	return &Consumer{
		receiver: receiver,
		bookings: bookings,
		notifier: n,
		metrics:  m,
		logger:   logger,
		config:   config,
	}
}

// Run processes batches until the context is cancelled. Queue receive failures
// are logged and retried; they never terminate the loop.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "consumer started",
		slog.Int("batch_size", c.config.BatchSize),
		slog.Duration("batch_window", c.config.BatchWindow),
		slog.Int("max_delivery_attempts", c.config.MaxDeliveryAttempts),
	)

	for {
		batch, err := c.receiver.ReceiveBatch(ctx, c.config.BatchSize, c.config.BatchWindow)
		// A mid-batch queue failure still yields the messages collected before
		// it; settle those before dealing with the error.
		if len(batch) > 0 {
			c.ProcessBatch(ctx, batch)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.logger.InfoContext(ctx, "consumer stopped")
			return nil
		}
		c.logger.ErrorContext(ctx, "failed to receive messages", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "consumer stopped")
			return nil
		case <-time.After(receiveRetryDelay):
		}
	}
}

// ProcessBatch handles each message of the batch independently. One poison or
// failing message never blocks the rest of the batch.
func (c *Consumer) ProcessBatch(ctx context.Context, batch []*queue.Message) {
	start := time.Now()
	outcomes := make(map[string]int, len(batch))

	for _, msg := range batch {
		outcome := c.processMessage(ctx, msg)
		outcomes[outcome]++
		c.metrics.RecordOperation(ctx, "notification", "message_process", outcome)
	}

	c.metrics.RecordDuration(ctx, "notification", "batch_process", time.Since(start), outcomeSuccess)
	c.logger.InfoContext(ctx, "batch processed",
		slog.Int("size", len(batch)),
		slog.Int("success", outcomes[outcomeSuccess]),
		slog.Int("poison", outcomes[outcomePoison]),
		slog.Int("dropped", outcomes[outcomeDropped]),
		slog.Int("skipped", outcomes[outcomeSkipped]),
		slog.Int("retry", outcomes[outcomeRetry]),
	)
}

// processMessage delivers a single notification and settles the message.
func (c *Consumer) processMessage(ctx context.Context, msg *queue.Message) string {
	decoded, err := notificationDomain.DecodeMessage(msg.Body)
	if err != nil {
		// A message that cannot be decoded will never succeed; retrying it
		// would only recycle it forever. Settle it and rely on the queue's
		// dead-letter policy for forensics.
		c.logger.ErrorContext(ctx, "poison message",
			slog.String("message_id", msg.LoggableID),
			slog.String("error", err.Error()),
		)
		msg.Ack()
		return outcomePoison
	}

	if c.config.MaxDeliveryAttempts > 0 && msg.Attempts > c.config.MaxDeliveryAttempts {
		c.logger.ErrorContext(ctx, "message exceeded max delivery attempts",
			slog.String("message_id", msg.LoggableID),
			slog.String("event_id", decoded.EventID),
			slog.String("booking_id", decoded.BookingID),
			slog.Int("attempts", msg.Attempts),
		)
		msg.Ack()
		return outcomeDropped
	}

	booking, err := c.bookings.Get(ctx, decoded.EventID, decoded.BookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// No durable record backs this notification; nothing to notify about.
			c.logger.WarnContext(ctx, "booking not found for notification",
				slog.String("event_id", decoded.EventID),
				slog.String("booking_id", decoded.BookingID),
			)
			msg.Ack()
			return outcomeSkipped
		}
		c.logger.ErrorContext(ctx, "failed to load booking",
			slog.String("event_id", decoded.EventID),
			slog.String("booking_id", decoded.BookingID),
			slog.String("error", err.Error()),
		)
		msg.Nack()
		return outcomeRetry
	}

	if booking.Status == bookingDomain.StatusFailed {
		c.logger.InfoContext(ctx, "skipping notification for failed booking",
			slog.String("event_id", decoded.EventID),
			slog.String("booking_id", decoded.BookingID),
		)
		msg.Ack()
		return outcomeSkipped
	}

	if err := c.notifier.Notify(ctx, decoded); err != nil {
		c.logger.ErrorContext(ctx, "failed to deliver notification",
			slog.String("event_id", decoded.EventID),
			slog.String("booking_id", decoded.BookingID),
			slog.String("error", err.Error()),
		)
		msg.Nack()
		return outcomeRetry
	}

	msg.Ack()
	return outcomeSuccess
}
