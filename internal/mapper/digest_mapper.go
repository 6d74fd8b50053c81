package mapper

import (
	"time"

	"digestly-be/internal/entity"
	"digestly-be/internal/model"

	"gorm.io/gorm"
)

type DigestMapper struct{}

func NewDigestMapper() *DigestMapper {
	return &DigestMapper{}
}

func (m *DigestMapper) ToEntity(d *model.Digest) *entity.Digest {
	if d == nil {
		return nil
	}
	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Digest{
		Id:          d.Id,
		TeamId:      d.TeamId,
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		PublishedAt: d.PublishedAt,
		IsTemplate:  d.IsTemplate,
		Views:       d.Views,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   d.DeletedAt.Valid,
	}
}

func (m *DigestMapper) ToModel(d *entity.Digest) *model.Digest {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Digest{
		Id:          d.Id,
		TeamId:      d.TeamId,
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		PublishedAt: d.PublishedAt,
		IsTemplate:  d.IsTemplate,
		Views:       d.Views,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *DigestMapper) ToEntities(digests []*model.Digest) []*entity.Digest {
	entities := make([]*entity.Digest, len(digests))
	for i, d := range digests {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
