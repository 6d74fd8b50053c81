package entity

import (
	"time"

	"github.com/google/uuid"
)

type DigestBlockType string

const (
	DigestBlockTypeBookmark DigestBlockType = "BOOKMARK"
	DigestBlockTypeText     DigestBlockType = "TEXT"
)

func (t DigestBlockType) Valid() bool {
	return t == DigestBlockTypeBookmark || t == DigestBlockTypeText
}

// DigestBlock is one ordered unit of digest content. Order is zero-based and
// dense within a digest.
type DigestBlock struct {
	Id          uuid.UUID
	DigestId    uuid.UUID
	Type        DigestBlockType
	Order       int
	BookmarkId  *uuid.UUID
	Bookmark    *Bookmark
	Title       string
	Description string
	Text        string
	Style       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
