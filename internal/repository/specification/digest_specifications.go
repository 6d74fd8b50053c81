package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IsTemplate struct {
	Value bool
}

func (s IsTemplate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_template = ?", s.Value)
}

// PublishedBefore keeps digests with a publication date at or before At.
// A zero At only requires the digest to have been published at some point.
type PublishedBefore struct {
	At time.Time
}

func (s PublishedBefore) Apply(db *gorm.DB) *gorm.DB {
	if s.At.IsZero() {
		return db.Where("digests.published_at IS NOT NULL")
	}
	return db.Where("digests.published_at IS NOT NULL AND digests.published_at <= ?", s.At)
}

// HasBookmarkBlock keeps digests with at least one block pointing at a bookmark.
type HasBookmarkBlock struct{}

func (s HasBookmarkBlock) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("EXISTS (SELECT 1 FROM digest_blocks blk WHERE blk.digest_id = digests.id AND blk.bookmark_id IS NOT NULL)")
}

type ByTeamSlug struct {
	Slug string
}

func (s ByTeamSlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("digests.team_id IN (SELECT id FROM teams WHERE slug = ?)", s.Slug)
}

type ByTeamIDs struct {
	TeamIDs []uuid.UUID
}

func (s ByTeamIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("team_id IN ?", s.TeamIDs)
}

// IncludeDeleted lifts the soft-delete scope, e.g. when checking slug uniqueness.
type IncludeDeleted struct{}

func (s IncludeDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
