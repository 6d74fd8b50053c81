package mapper

import (
	"encoding/json"

	"digestly-be/internal/entity"
	"digestly-be/internal/model"

	"gorm.io/datatypes"
)

type DigestActivityMapper struct{}

func NewDigestActivityMapper() *DigestActivityMapper {
	return &DigestActivityMapper{}
}

func (m *DigestActivityMapper) ToEntity(a *model.DigestActivity) *entity.DigestActivity {
	if a == nil {
		return nil
	}
	metadata := make(map[string]interface{})
	if len(a.Metadata) > 0 {
		_ = json.Unmarshal(a.Metadata, &metadata)
	}
	return &entity.DigestActivity{
		Id:        a.Id,
		DigestId:  a.DigestId,
		TeamId:    a.TeamId,
		Type:      a.Type,
		Metadata:  metadata,
		CreatedAt: a.CreatedAt,
	}
}

func (m *DigestActivityMapper) ToModel(a *entity.DigestActivity) (*model.DigestActivity, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, err
	}
	return &model.DigestActivity{
		Id:        a.Id,
		DigestId:  a.DigestId,
		TeamId:    a.TeamId,
		Type:      a.Type,
		Metadata:  datatypes.JSON(raw),
		CreatedAt: a.CreatedAt,
	}, nil
}

func (m *DigestActivityMapper) ToEntities(activities []*model.DigestActivity) []*entity.DigestActivity {
	entities := make([]*entity.DigestActivity, len(activities))
	for i, a := range activities {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
