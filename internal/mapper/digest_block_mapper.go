package mapper

import (
	"time"

	"digestly-be/internal/entity"
	"digestly-be/internal/model"
)

type DigestBlockMapper struct {
	bookmarks *BookmarkMapper
}

func NewDigestBlockMapper() *DigestBlockMapper {
	return &DigestBlockMapper{bookmarks: NewBookmarkMapper()}
}

func (m *DigestBlockMapper) ToEntity(b *model.DigestBlock) *entity.DigestBlock {
	if b == nil {
		return nil
	}
	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}
	return &entity.DigestBlock{
		Id:          b.Id,
		DigestId:    b.DigestId,
		Type:        entity.DigestBlockType(b.Type),
		Order:       b.Position,
		BookmarkId:  b.BookmarkId,
		Bookmark:    m.bookmarks.ToEntity(b.Bookmark),
		Title:       b.Title,
		Description: b.Description,
		Text:        b.Text,
		Style:       b.Style,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *DigestBlockMapper) ToModel(b *entity.DigestBlock) *model.DigestBlock {
	if b == nil {
		return nil
	}
	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}
	return &model.DigestBlock{
		Id:          b.Id,
		DigestId:    b.DigestId,
		Type:        string(b.Type),
		Position:    b.Order,
		BookmarkId:  b.BookmarkId,
		Title:       b.Title,
		Description: b.Description,
		Text:        b.Text,
		Style:       b.Style,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *DigestBlockMapper) ToEntities(blocks []*model.DigestBlock) []*entity.DigestBlock {
	entities := make([]*entity.DigestBlock, len(blocks))
	for i, b := range blocks {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
