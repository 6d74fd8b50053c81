package service

import (
	"context"
	"encoding/json"

	"digestly-be/internal/dto"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/cache"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// DigestBroadcaster pushes a payload to every realtime subscriber of a digest.
type DigestBroadcaster interface {
	BroadcastDigest(digestId uuid.UUID, payload []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	cache       cache.DigestCache
	broadcaster DigestBroadcaster
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	digestCache cache.DigestCache,
	broadcaster DigestBroadcaster,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		cache:       digestCache,
		broadcaster: broadcaster,
		logger:      log,
	}
}

// Consume starts the invalidation loop and returns once subscribed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.DigestChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal digest change", map[string]interface{}{"error": err})
		// never retry a payload that cannot decode
		msg.Ack()
		return
	}

	if err := cs.invalidate(ctx, payload); err != nil {
		cs.logger.Warn("Consumer", "Cache invalidation failed", map[string]interface{}{
			"digest_id": payload.DigestId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	if cs.broadcaster != nil {
		data, _ := json.Marshal(map[string]interface{}{
			"type": DigestChangedTopic,
			"data": payload,
		})
		cs.broadcaster.BroadcastDigest(payload.DigestId, data)
	}

	cs.logger.Debug("Consumer", "Digest change applied", map[string]interface{}{
		"digest_id": payload.DigestId,
		"version":   payload.Version,
		"reason":    payload.Reason,
	})
	msg.Ack()
}

// invalidate drops the changed digest and its team page. Other digests keep their entries.
func (cs *consumerService) invalidate(ctx context.Context, payload dto.DigestChangedMessage) error {
	return cs.cache.Delete(ctx, cache.DigestKey(payload.DigestId), cache.TeamPageKey(payload.TeamId))
}
