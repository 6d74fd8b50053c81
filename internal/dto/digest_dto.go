package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDigestRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	TemplateId  *uuid.UUID `json:"template_id"`
	IsTemplate  bool       `json:"is_template"`
}

// UpdateDigestRequest patches metadata. Published=true stamps the current time unless
// PublishedAt is given; Published=false turns the digest back into a draft.
type UpdateDigestRequest struct {
	Id          uuid.UUID
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	Published   *bool      `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	IsTemplate  *bool      `json:"is_template"`
}

type ListDigestsRequest struct {
	PageQuery
	IsTemplate bool `query:"isTemplate"`
}

type DigestResponse struct {
	Id          uuid.UUID       `json:"id"`
	TeamId      uuid.UUID       `json:"team_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	PublishedAt *time.Time      `json:"published_at"`
	IsTemplate  bool            `json:"is_template"`
	Views       int             `json:"views"`
	Version     int             `json:"version"`
	BlockCount  int64           `json:"block_count"`
	Blocks      []BlockResponse `json:"blocks,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

type DigestListResponse struct {
	Items      []DigestResponse `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

type ActivityResponse struct {
	Id        uuid.UUID              `json:"id"`
	Type      string                 `json:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ActivityQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DigestChangedMessage travels on the in-process bus after a committed digest write.
type DigestChangedMessage struct {
	TeamId   uuid.UUID `json:"team_id"`
	DigestId uuid.UUID `json:"digest_id"`
	Version  int       `json:"version"`
	Reason   string    `json:"reason"`
}
