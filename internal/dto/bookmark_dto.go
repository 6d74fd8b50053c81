package dto

import (
	"time"

	"github.com/google/uuid"
)

type LinkResponse struct {
	Id          uuid.UUID `json:"id"`
	Url         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	BlurHash    string    `json:"blur_hash,omitempty"`
}

type BookmarkResponse struct {
	Id        uuid.UUID     `json:"id"`
	TeamId    uuid.UUID     `json:"team_id"`
	Provider  string        `json:"provider"`
	Views     int           `json:"views"`
	Link      *LinkResponse `json:"link,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type ListBookmarksRequest struct {
	PageQuery
	OnlyNotInDigest bool   `query:"onlyNotInDigest"`
	Search          string `query:"search"`
}

type BookmarkListResponse struct {
	Items      []BookmarkResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

type CreateBookmarkRequest struct {
	Url         string `json:"url" validate:"required,url,max=2048"`
	Title       string `json:"title" validate:"max=512"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type BookmarkViewResponse struct {
	Id    uuid.UUID `json:"id"`
	Views int64     `json:"views"`
}
