package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Digest struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TeamId      uuid.UUID      `gorm:"type:uuid;not null;index:idx_digests_team_slug,priority:1"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Slug        string         `gorm:"type:varchar(255);not null;index:idx_digests_team_slug,priority:2"`
	Description string         `gorm:"type:text"`
	PublishedAt *time.Time     `gorm:"index"`
	IsTemplate  bool           `gorm:"not null;default:false"`
	Views       int            `gorm:"not null;default:0"`
	Version     int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Digest) TableName() string {
	return "digests"
}
