package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"digestly-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	contexts []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe registers a handler behind a durable consumer so restarts resume where they stopped.
// A handler error naks the message for redelivery.
func (s *Subscriber) Subscribe(subject string, durableName string, handler EventHandler) error {
	ctx := context.Background()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decode(msg.Subject(), msg.Data())
		if err != nil {
			log.Printf("Error unmarshalling event data: %v", err)
			// malformed payloads never succeed, drop them
			_ = msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}

		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.contexts = append(s.contexts, cc)
	log.Printf("Subscribed to %s with durable %s", subject, durableName)
	return nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.contexts {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}

func decode(subject string, data []byte) (events.BaseEvent, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return events.BaseEvent{}, err
	}

	occurredAt := time.Now().UTC()
	if raw, ok := payload[occurredAtKey].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			occurredAt = t
		}
		delete(payload, occurredAtKey)
	}

	return events.BaseEvent{
		Type:       strings.TrimPrefix(subject, SubjectPrefix),
		Data:       payload,
		OccurredAt: occurredAt,
	}, nil
}
