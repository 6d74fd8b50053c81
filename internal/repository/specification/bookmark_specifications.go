package specification

import (
	"strings"

	"gorm.io/gorm"
)

// BookmarkSearch matches the link title, description or url, case-insensitively.
type BookmarkSearch struct {
	Query string
}

func (s BookmarkSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(s.Query) + "%"
	return db.Where(
		"bookmarks.link_id IN (SELECT id FROM links WHERE LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(url) LIKE ?)",
		pattern, pattern, pattern,
	)
}

// NotInAnyDigest keeps bookmarks that no block references yet.
type NotInAnyDigest struct{}

func (s NotInAnyDigest) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM digest_blocks blk WHERE blk.bookmark_id = bookmarks.id)")
}

type WithLink struct{}

func (s WithLink) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Link")
}

type ByUrl struct {
	Url string
}

func (s ByUrl) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("url = ?", s.Url)
}
