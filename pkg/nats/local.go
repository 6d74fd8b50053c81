package nats

import (
	"context"
	"fmt"
	"log"
	"strings"

	"digestly-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const eventTypeKey = "event_type"

// LocalPublisher puts domain events on a watermill topic using the same
// encoding as the JetStream publisher. It carries events when NATS is down.
type LocalPublisher struct {
	publisher message.Publisher
	topic     string
}

func NewLocalPublisher(publisher message.Publisher, topic string) *LocalPublisher {
	return &LocalPublisher{publisher: publisher, topic: topic}
}

func (p *LocalPublisher) Publish(ctx context.Context, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(eventTypeKey, event.EventType())
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", p.topic, err)
	}
	return nil
}

// LocalSubscriber is the watermill counterpart of Subscriber.
type LocalSubscriber struct {
	subscriber message.Subscriber
	topic      string
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewLocalSubscriber(subscriber message.Subscriber, topic string) *LocalSubscriber {
	ctx, cancel := context.WithCancel(context.Background())
	return &LocalSubscriber{subscriber: subscriber, topic: topic, ctx: ctx, cancel: cancel}
}

// Subscribe delivers events whose subject matches subject. Only a trailing ">" wildcard is understood.
// There is no redelivery in process: a failing handler is logged and the message acked.
func (s *LocalSubscriber) Subscribe(subject string, durableName string, handler EventHandler) error {
	messages, err := s.subscriber.Subscribe(s.ctx, s.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.topic, err)
	}

	go func() {
		for msg := range messages {
			s.process(subject, msg, handler)
		}
	}()

	log.Printf("Subscribed to %s on local topic %s as %s", subject, s.topic, durableName)
	return nil
}

func (s *LocalSubscriber) process(subject string, msg *message.Message, handler EventHandler) {
	defer msg.Ack()

	eventSubject := SubjectPrefix + msg.Metadata.Get(eventTypeKey)
	if !matchSubject(subject, eventSubject) {
		return
	}

	event, err := decode(eventSubject, msg.Payload)
	if err != nil {
		log.Printf("Error unmarshalling event data: %v", err)
		return
	}

	if err := handler(msg.Context(), event); err != nil {
		log.Printf("Handler failed for event %s: %v", eventSubject, err)
	}
}

func (s *LocalSubscriber) Close() {
	s.cancel()
}

func matchSubject(pattern, subject string) bool {
	if prefix, ok := strings.CutSuffix(pattern, ">"); ok {
		return strings.HasPrefix(subject, prefix)
	}
	return pattern == subject
}
