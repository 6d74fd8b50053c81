package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByTeamID struct {
	TeamID uuid.UUID
	Table  string
}

func (s ByTeamID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(qualify(s.Table, "team_id")+" = ?", s.TeamID)
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type MemberOfTeam struct {
	TeamID uuid.UUID
	UserID uuid.UUID
}

func (s MemberOfTeam) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("team_id = ? AND user_id = ?", s.TeamID, s.UserID)
}
