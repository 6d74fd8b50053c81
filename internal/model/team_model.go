package model

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Bio       string    `gorm:"type:text"`
	Website   string    `gorm:"type:varchar(255)"`
	Github    string    `gorm:"type:varchar(255)"`
	Twitter   string    `gorm:"type:varchar(255)"`
	Color     string    `gorm:"type:varchar(32)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Team) TableName() string {
	return "teams"
}

type Membership struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeamId    uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_team_user,priority:1"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_team_user,priority:2"`
	Role      string    `gorm:"type:varchar(20);not null;default:'member'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "memberships"
}
