package specification

import (
	"digestly-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByDigestID struct {
	DigestID uuid.UUID
}

func (s ByDigestID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("digest_id = ?", s.DigestID)
}

type ByDigestIDs struct {
	DigestIDs []uuid.UUID
}

func (s ByDigestIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("digest_id IN ?", s.DigestIDs)
}

type ByBookmarkID struct {
	BookmarkID uuid.UUID
}

func (s ByBookmarkID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bookmark_id = ?", s.BookmarkID)
}

type ByBlockType struct {
	Type string
}

func (s ByBlockType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

// InPositionOrder sorts blocks by position, the order a digest is rendered in.
type InPositionOrder struct{}

func (s InPositionOrder) Apply(db *gorm.DB) *gorm.DB {
	return scope.OrderByPositionAsc(db)
}

// WithBookmarkLink preloads the referenced bookmark together with its link.
type WithBookmarkLink struct{}

func (s WithBookmarkLink) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Bookmark.Link")
}
