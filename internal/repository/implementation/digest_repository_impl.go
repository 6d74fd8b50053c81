package implementation

import (
	"context"
	"errors"

	"digestly-be/internal/entity"
	"digestly-be/internal/mapper"
	"digestly-be/internal/model"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/scope"
	"digestly-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DigestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DigestMapper
}

func NewDigestRepository(db *gorm.DB) contract.DigestRepository {
	return &DigestRepositoryImpl{
		db:     db,
		mapper: mapper.NewDigestMapper(),
	}
}

func (r *DigestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DigestRepositoryImpl) Create(ctx context.Context, digest *entity.Digest) error {
	m := r.mapper.ToModel(digest)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err, "digest")
	}
	*digest = *r.mapper.ToEntity(m)
	return nil
}

func (r *DigestRepositoryImpl) UpdateMetadata(ctx context.Context, digest *entity.Digest) error {
	res := r.db.WithContext(ctx).Model(&model.Digest{}).
		Where("id = ?", digest.Id).
		Updates(map[string]interface{}{
			"title":        digest.Title,
			"slug":         digest.Slug,
			"description":  digest.Description,
			"published_at": digest.PublishedAt,
			"is_template":  digest.IsTemplate,
		})
	if res.Error != nil {
		return translateError(res.Error, "digest")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DigestRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Digest{}, "id = ?", id).Error
}

func (r *DigestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Digest, error) {
	var m model.Digest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DigestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Digest, error) {
	var models []*model.Digest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DigestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Digest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SlugExists also looks at soft-deleted digests so a restored row never collides.
func (r *DigestRepositoryImpl) SlugExists(ctx context.Context, teamId uuid.UUID, slug string, exclude *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Digest{}).
		Scopes(scope.WithSoftDelete).
		Where("team_id = ? AND slug = ?", teamId, slug)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DigestRepositoryImpl) BumpVersion(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Digest{}).
		Where("id = ?", id).
		UpdateColumn("version", gorm.Expr("version + 1"))
	return res.RowsAffected, res.Error
}

func (r *DigestRepositoryImpl) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Digest{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
