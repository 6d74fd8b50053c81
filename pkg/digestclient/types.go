package digestclient

import (
	"time"

	"github.com/google/uuid"
)

const (
	BlockTypeBookmark = "BOOKMARK"
	BlockTypeText     = "TEXT"
)

type Link struct {
	Id          uuid.UUID `json:"id"`
	Url         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
}

type Bookmark struct {
	Id        uuid.UUID `json:"id"`
	TeamId    uuid.UUID `json:"team_id"`
	Provider  string    `json:"provider"`
	Views     int       `json:"views"`
	Link      *Link     `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Block struct {
	Id          uuid.UUID  `json:"id"`
	DigestId    uuid.UUID  `json:"digest_id"`
	Type        string     `json:"type"`
	Order       int        `json:"order"`
	BookmarkId  *uuid.UUID `json:"bookmark_id"`
	Bookmark    *Bookmark  `json:"bookmark,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Text        string     `json:"text,omitempty"`
	Style       string     `json:"style,omitempty"`
}

type Digest struct {
	Id          uuid.UUID  `json:"id"`
	TeamId      uuid.UUID  `json:"team_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
	IsTemplate  bool       `json:"is_template"`
	Version     int        `json:"version"`
	Blocks      []Block    `json:"blocks,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type BookmarkPage struct {
	Items      []Bookmark `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// AddBlockInput inserts a block at Position. Setting BlockID makes a resend of the
// same input safe: the server answers with the block it already created.
type AddBlockInput struct {
	BlockID         *uuid.UUID `json:"block_id,omitempty"`
	BookmarkID      *uuid.UUID `json:"bookmark_id,omitempty"`
	Position        int        `json:"position"`
	Type            string     `json:"type"`
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	Text            string     `json:"text,omitempty"`
	ExpectedVersion *int       `json:"expected_version,omitempty"`
}

type MoveBlockInput struct {
	BlockID         uuid.UUID `json:"-"`
	Position        int       `json:"position"`
	ExpectedVersion *int      `json:"expected_version,omitempty"`
}

type PatchDigestInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Published   *bool   `json:"published,omitempty"`
	IsTemplate  *bool   `json:"is_template,omitempty"`
}

type ListBookmarksInput struct {
	Page            int
	PerPage         int
	OnlyNotInDigest bool
	Search          string
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

type addBlockResult struct {
	Block   Block `json:"block"`
	Created bool  `json:"created"`
	Version int   `json:"version"`
}

type versionResult struct {
	Version int `json:"version"`
}
