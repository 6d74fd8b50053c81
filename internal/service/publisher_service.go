package service

import (
	"context"
	"encoding/json"

	"digestly-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const DigestChangedTopic = "digest.changed"

type IPublisherService interface {
	PublishDigestChanged(ctx context.Context, msg dto.DigestChangedMessage) error
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
}

func NewPublisherService(topicName string, pubSub message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (s *publisherService) PublishDigestChanged(ctx context.Context, msg dto.DigestChangedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, m)
}
