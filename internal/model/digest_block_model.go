package model

import (
	"time"

	"github.com/google/uuid"
)

type DigestBlock struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DigestId    uuid.UUID  `gorm:"type:uuid;not null;index:idx_digest_blocks_digest_position,priority:1"`
	Type        string     `gorm:"type:varchar(20);not null"`
	Position    int        `gorm:"not null;index:idx_digest_blocks_digest_position,priority:2"`
	BookmarkId  *uuid.UUID `gorm:"type:uuid;index"`
	Bookmark    *Bookmark  `gorm:"foreignKey:BookmarkId;constraint:OnDelete:SET NULL"`
	Title       string     `gorm:"type:varchar(512)"`
	Description string     `gorm:"type:text"`
	Text        string     `gorm:"type:text"`
	Style       string     `gorm:"type:varchar(32)"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (DigestBlock) TableName() string {
	return "digest_blocks"
}
