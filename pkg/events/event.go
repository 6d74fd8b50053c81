package events

import (
	"context"
	"time"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DIGEST_PUBLISHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is satisfied by the NATS publishers in pkg/nats and by NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NopPublisher drops events. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
