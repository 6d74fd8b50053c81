package implementation

import (
	"context"

	"digestly-be/internal/entity"
	"digestly-be/internal/mapper"
	"digestly-be/internal/model"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DigestActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DigestActivityMapper
}

func NewDigestActivityRepository(db *gorm.DB) contract.DigestActivityRepository {
	return &DigestActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewDigestActivityMapper(),
	}
}

func (r *DigestActivityRepositoryImpl) Create(ctx context.Context, activity *entity.DigestActivity) error {
	m, err := r.mapper.ToModel(activity)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err, "activity")
	}
	activity.CreatedAt = m.CreatedAt
	return nil
}

func (r *DigestActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DigestActivity, error) {
	var models []*model.DigestActivity
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
