package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"digestly-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "DIGEST_EVENTS"
	SubjectPrefix = "events."
	occurredAtKey = "occurred_at"
)

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return nc, js, nil
}

// NewPublisher connects and makes sure the digest event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		// the stream may already exist with a different config, or NATS is still starting
		log.Printf("Warn: Failed to ensure stream '%s': %v", StreamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends an event to NATS on events.<TYPE>.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	subject := SubjectPrefix + event.EventType()
	if _, err = p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

func encode(event events.Event) ([]byte, error) {
	payload := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		payload[k] = v
	}
	payload[occurredAtKey] = event.Timestamp().Format(time.RFC3339Nano)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}
