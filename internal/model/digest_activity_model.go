package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DigestActivity is the audit trail of domain events that touched a digest.
type DigestActivity struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DigestId  uuid.UUID      `gorm:"type:uuid;not null;index:idx_digest_activities_digest_created,priority:1" json:"digest_id"`
	TeamId    uuid.UUID      `gorm:"type:uuid;not null;index" json:"team_id"`
	Type      string         `gorm:"type:varchar(50);not null" json:"type"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_digest_activities_digest_created,priority:2" json:"created_at"`
}

func (DigestActivity) TableName() string {
	return "digest_activities"
}
