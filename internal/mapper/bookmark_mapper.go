package mapper

import (
	"time"

	"digestly-be/internal/entity"
	"digestly-be/internal/model"
)

type BookmarkMapper struct{}

func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

func (m *BookmarkMapper) LinkToEntity(l *model.Link) *entity.Link {
	if l == nil {
		return nil
	}
	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		u := l.UpdatedAt
		updatedAt = &u
	}
	return &entity.Link{
		Id:          l.Id,
		Url:         l.Url,
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		BlurHash:    l.BlurHash,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *BookmarkMapper) LinkToModel(l *entity.Link) *model.Link {
	if l == nil {
		return nil
	}
	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}
	return &model.Link{
		Id:          l.Id,
		Url:         l.Url,
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		BlurHash:    l.BlurHash,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *BookmarkMapper) ToEntity(b *model.Bookmark) *entity.Bookmark {
	if b == nil {
		return nil
	}
	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		u := b.UpdatedAt
		updatedAt = &u
	}
	return &entity.Bookmark{
		Id:           b.Id,
		LinkId:       b.LinkId,
		TeamId:       b.TeamId,
		MembershipId: b.MembershipId,
		Provider:     b.Provider,
		Views:        b.Views,
		Link:         m.LinkToEntity(b.Link),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

// ToModel leaves the Link association empty; links are written through their own repository.
func (m *BookmarkMapper) ToModel(b *entity.Bookmark) *model.Bookmark {
	if b == nil {
		return nil
	}
	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}
	return &model.Bookmark{
		Id:           b.Id,
		LinkId:       b.LinkId,
		TeamId:       b.TeamId,
		MembershipId: b.MembershipId,
		Provider:     b.Provider,
		Views:        b.Views,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *BookmarkMapper) ToEntities(bookmarks []*model.Bookmark) []*entity.Bookmark {
	entities := make([]*entity.Bookmark, len(bookmarks))
	for i, b := range bookmarks {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
