package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"digestly-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries digest frames between server instances.
const ClusterChannel = "digest_events"

type Hub struct {
	// Rooms: DigestID -> clients watching that digest
	rooms map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil on a single instance
	rdb *redis.Client

	// origin tags frames this instance published so it skips its own echo
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

type clusterFrame struct {
	Origin   string          `json:"origin"`
	DigestID string          `json:"digest_id"`
	Message  json.RawMessage `json:"message"`
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.rooms[client.DigestID] = append(h.rooms[client.DigestID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client joined digest", map[string]interface{}{
				"digest_id": client.DigestID,
				"user_id":   client.UserID,
			})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.rooms[client.DigestID]
	for i, c := range clients {
		if c == client {
			h.rooms[client.DigestID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.rooms[client.DigestID]) == 0 {
		delete(h.rooms, client.DigestID)
	}
}

// Watchers reports how many local clients watch digestId.
func (h *Hub) Watchers(digestId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[digestId])
}

// BroadcastDigest delivers payload to every watcher of digestId on this instance
// and relays it to the other instances through Redis.
func (h *Hub) BroadcastDigest(digestId uuid.UUID, payload []byte) {
	h.deliver(digestId, payload)

	if h.rdb != nil {
		frame, _ := json.Marshal(clusterFrame{
			Origin:   h.origin,
			DigestID: digestId.String(),
			Message:  payload,
		})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, frame).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver holds the read lock while sending so remove cannot close a channel mid-send.
// Clients whose buffer is full are dropped once the lock is released.
func (h *Hub) deliver(digestId uuid.UUID, payload []byte) {
	var stalled []*Client

	h.mu.RLock()
	for _, client := range h.rooms[digestId] {
		select {
		case client.Send <- payload:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{
			"digest_id": digestId,
			"user_id":   client.UserID,
		})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Warn("Hub", "Redis frame parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if frame.Origin == h.origin {
			continue
		}
		digestId, err := uuid.Parse(frame.DigestID)
		if err != nil {
			continue
		}
		h.deliver(digestId, frame.Message)
	}
}
