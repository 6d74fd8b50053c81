package implementation

import (
	"context"
	"errors"

	"digestly-be/internal/entity"
	"digestly-be/internal/mapper"
	"digestly-be/internal/model"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TeamRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TeamMapper
}

func NewTeamRepository(db *gorm.DB) contract.TeamRepository {
	return &TeamRepositoryImpl{
		db:     db,
		mapper: mapper.NewTeamMapper(),
	}
}

func (r *TeamRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TeamRepositoryImpl) Create(ctx context.Context, team *entity.Team) error {
	m := r.mapper.ToModel(team)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err, "team")
	}
	*team = *r.mapper.ToEntity(m)
	return nil
}

func (r *TeamRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Team, error) {
	var m model.Team
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TeamRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Team, error) {
	var models []*model.Team
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TeamRepositoryImpl) CreateMembership(ctx context.Context, membership *entity.Membership) error {
	m := r.mapper.MembershipToModel(membership)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err, "membership")
	}
	*membership = *r.mapper.MembershipToEntity(m)
	return nil
}

func (r *TeamRepositoryImpl) FindMembership(ctx context.Context, specs ...specification.Specification) (*entity.Membership, error) {
	var m model.Membership
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MembershipToEntity(&m), nil
}
