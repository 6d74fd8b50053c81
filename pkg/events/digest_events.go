package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	DigestPublished    = "DIGEST_PUBLISHED"
	DigestDeleted      = "DIGEST_DELETED"
	DigestBlockAdded   = "DIGEST_BLOCK_ADDED"
	DigestBlockMoved   = "DIGEST_BLOCK_MOVED"
	DigestBlockUpdated = "DIGEST_BLOCK_UPDATED"
	DigestBlockRemoved = "DIGEST_BLOCK_REMOVED"
)

// NewDigestEvent builds an event whose payload always carries the team and digest ids.
func NewDigestEvent(eventType string, teamId, digestId uuid.UUID, data map[string]interface{}) BaseEvent {
	payload := map[string]interface{}{
		"team_id":   teamId.String(),
		"digest_id": digestId.String(),
	}
	for k, v := range data {
		payload[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now().UTC(),
	}
}

// DigestIDs extracts the ids written by NewDigestEvent.
func DigestIDs(e Event) (teamId, digestId uuid.UUID, err error) {
	payload := e.Payload()
	teamStr, _ := payload["team_id"].(string)
	digestStr, _ := payload["digest_id"].(string)
	if teamId, err = uuid.Parse(teamStr); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if digestId, err = uuid.Parse(digestStr); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return teamId, digestId, nil
}
