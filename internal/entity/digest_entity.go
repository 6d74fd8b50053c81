package entity

import (
	"time"

	"github.com/google/uuid"
)

type Digest struct {
	Id          uuid.UUID
	TeamId      uuid.UUID
	Title       string
	Slug        string
	Description string
	PublishedAt *time.Time // nil means draft
	IsTemplate  bool
	Views       int
	Version     int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

func (d *Digest) IsPublished(now time.Time) bool {
	return d.PublishedAt != nil && !d.PublishedAt.After(now)
}
