package websocket

import (
	"context"
	"testing"
	"time"

	"digestly-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func join(t *testing.T, h *Hub, digestId uuid.UUID) *Client {
	t.Helper()
	c := &Client{Hub: h, UserID: uuid.New(), DigestID: digestId, Send: make(chan []byte, 4)}
	h.register <- c
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		for _, x := range h.rooms[digestId] {
			if x == c {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestBroadcastReachesOnlyTheDigestRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	digestId := uuid.New()
	watcher := join(t, hub, digestId)
	bystander := join(t, hub, uuid.New())

	hub.BroadcastDigest(digestId, []byte(`{"type":"digest.changed"}`))

	assert.JSONEq(t, `{"type":"digest.changed"}`, string(receive(t, watcher)))
	assert.Empty(t, bystander.Send)
	assert.Equal(t, 1, hub.Watchers(digestId))

	hub.unregister <- watcher
	require.Eventually(t, func() bool { return hub.Watchers(digestId) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-watcher.Send
	assert.False(t, open, "leaving the room closes the send channel")
}

func TestBroadcastRelaysAcrossInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		return rdb
	}

	first := NewHub(newClient(), logger.NewNopLogger())
	second := NewHub(newClient(), logger.NewNopLogger())
	go first.Run(ctx)
	go second.Run(ctx)

	// wait until both hubs are subscribed
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(ClusterChannel)[ClusterChannel] == 2
	}, time.Second, 5*time.Millisecond)

	digestId := uuid.New()
	local := join(t, first, digestId)
	remote := join(t, second, digestId)

	first.BroadcastDigest(digestId, []byte(`{"v":1}`))

	assert.JSONEq(t, `{"v":1}`, string(receive(t, local)))
	assert.JSONEq(t, `{"v":1}`, string(receive(t, remote)))

	// the origin instance ignores its own echo
	select {
	case msg := <-local.Send:
		t.Fatalf("duplicate delivery: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFullBufferDropsClientAfterHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	digestId := uuid.New()
	slow := join(t, hub, digestId)
	fast := join(t, hub, digestId)
	cancel()

	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("queued")
	}

	hub.BroadcastDigest(digestId, []byte(`{"type":"digest.changed"}`))

	assert.Equal(t, 1, hub.Watchers(digestId), "dropped without the run loop")
	assert.Equal(t, `{"type":"digest.changed"}`, string(receive(t, fast)))

	for range slow.Send {
	}
	// a second broadcast must not touch the closed channel
	hub.BroadcastDigest(digestId, []byte(`{"type":"digest.changed"}`))
	assert.Equal(t, 1, hub.Watchers(digestId))
}
