package model

import (
	"time"

	"github.com/google/uuid"
)

type Link struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Url         string    `gorm:"type:text;not null;uniqueIndex"`
	Title       string    `gorm:"type:varchar(512)"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:text"`
	BlurHash    string    `gorm:"type:varchar(128)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Link) TableName() string {
	return "links"
}

type Bookmark struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LinkId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Link         *Link      `gorm:"foreignKey:LinkId;constraint:OnDelete:CASCADE"`
	TeamId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	MembershipId *uuid.UUID `gorm:"type:uuid;index"`
	Provider     string     `gorm:"type:varchar(32);not null;default:'web'"`
	Views        int        `gorm:"not null;default:0"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
