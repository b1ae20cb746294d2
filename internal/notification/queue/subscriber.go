package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gocloud.dev/pubsub"

	apperrors "github.com/allisson/bookings/internal/errors"
)

// attemptsMetadataKey is the metadata key some queue backends use to expose
// how many times a message has been delivered.
const attemptsMetadataKey = "ApproximateReceiveCount"

// Message is a single received queue message. Each message is acknowledged
// independently: Ack removes it from the queue, Nack (where the backend
// supports it) makes it immediately redeliverable, and doing neither leaves it
// to reappear after the queue's visibility timeout.
type Message struct {
	// Body is the raw message body.
	Body []byte
	// Metadata carries the message attributes set at publish time.
	Metadata map[string]string
	// Attempts is the delivery attempt count reported by the queue's own
	// redelivery mechanism. Backends that do not expose it report 1.
	Attempts int
	// LoggableID identifies the message in logs.
	LoggableID string

	ack  func()
	nack func() bool
}

// NewMessage builds a message with explicit ack/nack hooks. Intended for
// wiring alternative transports and for tests.
func NewMessage(body []byte, attempts int, loggableID string, ack func(), nack func() bool) *Message {
	return &Message{
		Body:       body,
		Attempts:   attempts,
		LoggableID: loggableID,
		ack:        ack,
		nack:       nack,
	}
}

// Ack acknowledges the message, removing it from the queue.
func (m *Message) Ack() {
	if m.ack != nil {
		m.ack()
	}
}

// Nack makes the message redeliverable and reports whether the backend
// supported the negative acknowledgment. When it returns false the message is
// simply left unacknowledged and redelivery waits for the visibility timeout.
func (m *Message) Nack() bool {
	if m.nack != nil {
		return m.nack()
	}
	return false
}

// Subscriber receives notification messages from the queue.
type Subscriber struct {
	sub *pubsub.Subscription
}

// OpenSubscriber opens the pubsub subscription identified by the given URL.
func OpenSubscriber(ctx context.Context, subscriptionURL string) (*Subscriber, error) {
	sub, err := pubsub.OpenSubscription(ctx, subscriptionURL)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependency, "failed to open subscription %q", subscriptionURL)
	}
	return &Subscriber{sub: sub}, nil
}

// Receive blocks until a message arrives or the context is done.
func (s *Subscriber) Receive(ctx context.Context) (*Message, error) {
	msg, err := s.sub.Receive(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrDependency, err.Error())
	}
	return wrapMessage(msg), nil
}

// ReceiveBatch collects up to max messages. It blocks for the first message,
// then keeps collecting until the batch is full or the window elapses. Context
// cancellation before the first message returns the context error; a window
// expiry simply closes the batch. A queue failure mid-batch returns the
// messages collected so far together with the error, so an outage stays
// visible instead of masquerading as a short batch.
func (s *Subscriber) ReceiveBatch(
	ctx context.Context,
	max int,
	window time.Duration,
) ([]*Message, error) {
	first, err := s.Receive(ctx)
	if err != nil {
		return nil, err
	}

	batch := []*Message{first}
	if max <= 1 {
		return batch, nil
	}

	windowCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	for len(batch) < max {
		msg, err := s.Receive(windowCtx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// Window elapsed or parent context done: the batch is complete.
				break
			}
			return batch, err
		}
		batch = append(batch, msg)
	}
	return batch, nil
}

// Shutdown closes the subscription.
func (s *Subscriber) Shutdown(ctx context.Context) error {
	return s.sub.Shutdown(ctx)
}

// wrapMessage adapts a pubsub message, deriving the delivery attempt count
// from queue metadata when the backend exposes it.
func wrapMessage(msg *pubsub.Message) *Message {
	attempts := 1
	if raw, ok := msg.Metadata[attemptsMetadataKey]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			attempts = n
		}
	}

	return &Message{
		Body:       msg.Body,
		Metadata:   msg.Metadata,
		Attempts:   attempts,
		LoggableID: msg.LoggableID,
		ack:        msg.Ack,
		nack: func() bool {
			if msg.Nackable() {
				msg.Nack()
				return true
			}
			return false
		},
	}
}
