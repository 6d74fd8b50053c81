package entity

import (
	"time"

	"github.com/google/uuid"
)

type Link struct {
	Id          uuid.UUID
	Url         string
	Title       string
	Description string
	Image       string
	BlurHash    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Bookmark is a link saved by a team. Blocks reference it without owning it.
type Bookmark struct {
	Id           uuid.UUID
	LinkId       uuid.UUID
	TeamId       uuid.UUID
	MembershipId *uuid.UUID
	Provider     string
	Views        int
	Link         *Link
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
