package mapper

import (
	"time"

	"digestly-be/internal/entity"
	"digestly-be/internal/model"
)

type TeamMapper struct{}

func NewTeamMapper() *TeamMapper {
	return &TeamMapper{}
}

func (m *TeamMapper) ToEntity(t *model.Team) *entity.Team {
	if t == nil {
		return nil
	}
	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}
	return &entity.Team{
		Id:        t.Id,
		Name:      t.Name,
		Slug:      t.Slug,
		Bio:       t.Bio,
		Website:   t.Website,
		Github:    t.Github,
		Twitter:   t.Twitter,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TeamMapper) ToModel(t *entity.Team) *model.Team {
	if t == nil {
		return nil
	}
	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}
	return &model.Team{
		Id:        t.Id,
		Name:      t.Name,
		Slug:      t.Slug,
		Bio:       t.Bio,
		Website:   t.Website,
		Github:    t.Github,
		Twitter:   t.Twitter,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TeamMapper) ToEntities(teams []*model.Team) []*entity.Team {
	entities := make([]*entity.Team, len(teams))
	for i, t := range teams {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *TeamMapper) MembershipToEntity(ms *model.Membership) *entity.Membership {
	if ms == nil {
		return nil
	}
	return &entity.Membership{
		Id:        ms.Id,
		TeamId:    ms.TeamId,
		UserId:    ms.UserId,
		Role:      ms.Role,
		CreatedAt: ms.CreatedAt,
	}
}

func (m *TeamMapper) MembershipToModel(ms *entity.Membership) *model.Membership {
	if ms == nil {
		return nil
	}
	return &model.Membership{
		Id:        ms.Id,
		TeamId:    ms.TeamId,
		UserId:    ms.UserId,
		Role:      ms.Role,
		CreatedAt: ms.CreatedAt,
	}
}
