package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event types forwarded to the delivery subsystem.
const (
	EventRequestApproved       = "request.approved"
	EventRequestRejected       = "request.rejected"
	EventCancellationRequested = "request.cancellation_requested"
	EventRequestCancelled      = "request.cancelled"
	EventAssistantReassigned   = "planning.assistant_reassigned"
)

// Event is the payload handed to the notification boundary. Delivery
// guarantees (retry, digest batching, push) belong to the delivery
// subsystem, not the engine.
type Event struct {
	Type         string                 `json:"type"`
	RecipientIDs []uuid.UUID            `json:"recipient_ids"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
}

// Notifier is the engine's outbound notification boundary. Calls are
// fire-and-forget: a failing notifier never rolls back or blocks the state
// transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// RedisNotifier publishes events as JSON on a redis channel the delivery
// subsystem subscribes to.
type RedisNotifier struct {
	client  *redis.Client
	log     *logrus.Logger
	channel string
}

// NotificationChannel is the pub/sub channel the delivery worker listens on.
const NotificationChannel = "planning:events"

func NewRedisNotifier(client *redis.Client, log *logrus.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		log:     log,
		channel: NotificationChannel,
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}

	n.log.Debugf("Published event %s to %d recipient(s)", event.Type, len(event.RecipientIDs))
	return nil
}

// NoopNotifier discards events. Used in tests and when no delivery subsystem
// is wired.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, event Event) error {
	return nil
}
