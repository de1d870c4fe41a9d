// Package messaging carries domain events between components as JSON
// messages over a watermill pub/sub.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/foodkart/backend/internal/entity"
)

// Topics. Order topics ride the broker; session changes stay in-process.
const (
	TopicOrderPlaced = "orders.placed"
	TopicOrderStatus = "orders.status"
	TopicSessions    = "auth.sessions"
)

// MetaKey and MetaEventType are message metadata fields set on every
// published event.
const (
	MetaKey       = "key"
	MetaEventType = "event_type"
)

// Publisher publishes domain events.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event entity.Event) error
}

// EventPublisher adapts a watermill publisher to the Publisher interface,
// marshaling events to JSON and tagging them with key and type metadata.
type EventPublisher struct {
	pub message.Publisher
}

// NewEventPublisher wraps pub.
func NewEventPublisher(pub message.Publisher) *EventPublisher {
	return &EventPublisher{pub: pub}
}

func (p *EventPublisher) PublishEvent(ctx context.Context, topic, key string, event entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetaKey, key)
	msg.Metadata.Set(MetaEventType, event.EventType())
	msg.SetContext(ctx)

	return p.pub.Publish(topic, msg)
}
