package service

import (
	"context"
	"testing"

	"digestly-be/internal/dto"
	"digestly-be/pkg/apperror"
	"digestly-be/pkg/events"
	pktNats "digestly-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRecordsDigestEvents(t *testing.T) {
	env := newTestEnv(t)
	svc := NewActivityService(env.factory, env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)

	// wire the block service through the in-process topic, as the server does without NATS
	bus := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })
	sub := pktNats.NewLocalSubscriber(bus, "digest.events")
	t.Cleanup(sub.Close)
	require.NoError(t, svc.Start(sub))
	blocks := NewDigestBlockService(env.factory, env.publisher, pktNats.NewLocalPublisher(bus, "digest.events"), env.log)

	added, err := blocks.Add(ctx, &dto.AddBlockRequest{TeamId: team.Id, DigestId: digest.Id, Position: intPtr(0), Type: "TEXT"})
	require.NoError(t, err)
	_, err = blocks.Remove(ctx, &dto.RemoveBlockRequest{TeamId: team.Id, DigestId: digest.Id, BlockId: added.Block.Id})
	require.NoError(t, err)

	feed, err := svc.GetActivity(ctx, team.Id, digest.Id, dto.ActivityQuery{})
	require.NoError(t, err)
	require.Len(t, feed, 2)

	types := []string{feed[0].Type, feed[1].Type}
	assert.ElementsMatch(t, []string{events.DigestBlockAdded, events.DigestBlockRemoved}, types)
	for _, a := range feed {
		assert.Equal(t, added.Block.Id.String(), a.Metadata["block_id"])
		assert.NotContains(t, a.Metadata, "digest_id")
	}

	limited, err := svc.GetActivity(ctx, team.Id, digest.Id, dto.ActivityQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestActivitySkipsForeignEvents(t *testing.T) {
	env := newTestEnv(t)
	svc := NewActivityService(env.factory, env.log)

	err := svc.HandleEvent(context.Background(), events.BaseEvent{Type: "USER_LOGIN", Data: map[string]interface{}{}})
	assert.NoError(t, err)
}

func TestActivityOfUnknownDigest(t *testing.T) {
	env := newTestEnv(t)
	svc := NewActivityService(env.factory, env.log)

	_, err := svc.GetActivity(context.Background(), uuid.New(), uuid.New(), dto.ActivityQuery{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
