package nats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"digestly-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalBus(t *testing.T) (*LocalPublisher, *LocalSubscriber) {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	sub := NewLocalSubscriber(bus, "digest.events")
	t.Cleanup(func() {
		sub.Close()
		_ = bus.Close()
	})
	return NewLocalPublisher(bus, "digest.events"), sub
}

type received struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *received) handle(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *received) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func TestLocalBusDeliversBeforePublishReturns(t *testing.T) {
	pub, sub := newLocalBus(t)
	got := &received{}
	require.NoError(t, sub.Subscribe(SubjectPrefix+">", "activity", got.handle))

	teamId, digestId := uuid.New(), uuid.New()
	in := events.NewDigestEvent(events.DigestBlockMoved, teamId, digestId, map[string]interface{}{"from": 0, "to": 2})
	require.NoError(t, pub.Publish(context.Background(), in))

	require.Equal(t, []string{events.DigestBlockMoved}, got.types())
	out := got.events[0]
	assert.WithinDuration(t, in.Timestamp(), out.Timestamp(), time.Microsecond)
	assert.EqualValues(t, 2, out.Payload()["to"])

	gotTeam, gotDigest, err := events.DigestIDs(out)
	require.NoError(t, err)
	assert.Equal(t, teamId, gotTeam)
	assert.Equal(t, digestId, gotDigest)
}

func TestLocalBusFiltersBySubject(t *testing.T) {
	pub, sub := newLocalBus(t)
	got := &received{}
	require.NoError(t, sub.Subscribe(SubjectPrefix+events.DigestPublished, "published", got.handle))

	ctx := context.Background()
	require.NoError(t, pub.Publish(ctx, events.NewDigestEvent(events.DigestDeleted, uuid.New(), uuid.New(), nil)))
	require.NoError(t, pub.Publish(ctx, events.NewDigestEvent(events.DigestPublished, uuid.New(), uuid.New(), nil)))

	assert.Equal(t, []string{events.DigestPublished}, got.types())
}

func TestLocalBusKeepsGoingAfterHandlerError(t *testing.T) {
	pub, sub := newLocalBus(t)
	var mu sync.Mutex
	calls := 0
	require.NoError(t, sub.Subscribe(SubjectPrefix+">", "activity", func(ctx context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("boom")
	}))

	ctx := context.Background()
	require.NoError(t, pub.Publish(ctx, events.NewDigestEvent(events.DigestDeleted, uuid.New(), uuid.New(), nil)))
	require.NoError(t, pub.Publish(ctx, events.NewDigestEvent(events.DigestDeleted, uuid.New(), uuid.New(), nil)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "failed events are acked, not redelivered")
}

func TestMatchSubject(t *testing.T) {
	assert.True(t, matchSubject("events.>", "events.DIGEST_DELETED"))
	assert.True(t, matchSubject("events.DIGEST_DELETED", "events.DIGEST_DELETED"))
	assert.False(t, matchSubject("events.DIGEST_PUBLISHED", "events.DIGEST_DELETED"))
	assert.False(t, matchSubject("other.>", "events.DIGEST_DELETED"))
}
