// Package notifier performs the externally observable notification side effect.
// The production sink (email/SMS/webhook provider) is a collaborator outside
// this core; LogNotifier stands in for it and records each delivery.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	notificationDomain "github.com/allisson/bookings/internal/notification/domain"
)

// Notifier delivers a single notification. Implementations must be safe to
// call twice with the same message: the queue is at-least-once, so a duplicate
// real-world notification is an accepted, bounded cost.
type Notifier interface {
	Notify(ctx context.Context, msg *notificationDomain.Message) error
}

// LogNotifier writes notifications to the structured log instead of an
// external provider.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify records the notification. The recipient and greeting are derived from
// the payload snapshot when present.
func (n *LogNotifier) Notify(ctx context.Context, msg *notificationDomain.Message) error {
	n.logger.InfoContext(ctx, "notification sent",
		slog.String("type", "email_notification"),
		slog.String("action", msg.Action),
		slog.String("event_id", msg.EventID),
		slog.String("booking_id", msg.BookingID),
		slog.String("recipient", payloadString(msg.Payload, "user_email")),
		slog.String("subject", fmt.Sprintf("Event Booking Confirmation - %s", msg.EventID)),
	)
	return nil
}

// payloadString extracts a string field from the payload snapshot, returning
// an empty string when absent.
func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	if value, ok := payload[key].(string); ok {
		return value
	}
	return ""
}
