package dto

import (
	"time"

	"github.com/google/uuid"
)

type BlockResponse struct {
	Id          uuid.UUID         `json:"id"`
	DigestId    uuid.UUID         `json:"digest_id"`
	Type        string            `json:"type"`
	Order       int               `json:"order"`
	BookmarkId  *uuid.UUID        `json:"bookmark_id"`
	Bookmark    *BookmarkResponse `json:"bookmark,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Text        string            `json:"text,omitempty"`
	Style       string            `json:"style,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at"`
}

// AddBlockRequest inserts a block at Position. Resending with the same BlockId is safe.
type AddBlockRequest struct {
	TeamId          uuid.UUID
	DigestId        uuid.UUID
	BlockId         *uuid.UUID `json:"block_id"`
	BookmarkId      *uuid.UUID `json:"bookmark_id"`
	Position        *int       `json:"position" validate:"required,min=0"`
	Type            string     `json:"type" validate:"required,oneof=BOOKMARK TEXT"`
	Title           string     `json:"title" validate:"max=512"`
	Description     string     `json:"description"`
	Text            string     `json:"text"`
	Style           string     `json:"style" validate:"max=32"`
	ExpectedVersion *int       `json:"expected_version" validate:"omitempty,min=0"`
}

type AddBlockResponse struct {
	Block   BlockResponse `json:"block"`
	Created bool          `json:"created"`
	Version int           `json:"version"`
}

// UpdateBlockRequest moves the block when Position is set and edits any inline field given.
type UpdateBlockRequest struct {
	TeamId          uuid.UUID
	DigestId        uuid.UUID
	BlockId         uuid.UUID
	Position        *int    `json:"position" validate:"omitempty,min=0"`
	Title           *string `json:"title" validate:"omitempty,max=512"`
	Description     *string `json:"description"`
	Text            *string `json:"text"`
	Style           *string `json:"style" validate:"omitempty,max=32"`
	ExpectedVersion *int    `json:"expected_version" validate:"omitempty,min=0"`
}

type UpdateBlockResponse struct {
	Block   BlockResponse `json:"block"`
	Version int           `json:"version"`
}

type RemoveBlockRequest struct {
	TeamId          uuid.UUID
	DigestId        uuid.UUID
	BlockId         uuid.UUID
	ExpectedVersion *int `query:"expectedVersion"`
}

type RemoveBlockResponse struct {
	Id      uuid.UUID `json:"id"`
	Version int       `json:"version"`
}
