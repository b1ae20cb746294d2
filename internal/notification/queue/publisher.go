// Package queue provides the notification queue transport.
//
// Topics and subscriptions are opened by URL through gocloud.dev/pubsub, so the
// same code runs against SQS in production and an in-memory queue in tests:
//
//	awssqs://sqs.us-east-1.amazonaws.com/123456789012/notifications
//	mem://notifications
package queue

import (
	"context"
	"time"

	"gocloud.dev/pubsub"

	// Register pubsub drivers
	_ "gocloud.dev/pubsub/awssnssqs"
	_ "gocloud.dev/pubsub/mempubsub"

	apperrors "github.com/allisson/bookings/internal/errors"
	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
)

// Publisher enqueues notification messages. Enqueue is best-effort: the store
// write is the durability boundary, so a failed publish is reported to the
// caller for logging and reconciliation, never rolled back.
type Publisher struct {
	topic   *pubsub.Topic
	timeout time.Duration
}

// OpenPublisher opens the pubsub topic identified by the given URL.
// timeout bounds every publish call; zero disables the bound.
func OpenPublisher(ctx context.Context, topicURL string, timeout time.Duration) (*Publisher, error) {
	topic, err := pubsub.OpenTopic(ctx, topicURL)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDependency, "failed to open topic %q", topicURL)
	}
	return &Publisher{topic: topic, timeout: timeout}, nil
}

// Publish enqueues a single notification message.
func (p *Publisher) Publish(ctx context.Context, msg *notificationDomain.Message) error {
	body, err := msg.Encode()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode notification message")
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err = p.topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"event_id":   msg.EventID,
			"booking_id": msg.BookingID,
			"action":     msg.Action,
		},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDependency, err.Error())
	}
	return nil
}

// Shutdown flushes and closes the topic.
func (p *Publisher) Shutdown(ctx context.Context) error {
	return p.topic.Shutdown(ctx)
}
