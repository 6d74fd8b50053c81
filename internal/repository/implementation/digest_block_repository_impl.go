package implementation

import (
	"context"
	"errors"

	"digestly-be/internal/entity"
	"digestly-be/internal/mapper"
	"digestly-be/internal/model"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DigestBlockRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DigestBlockMapper
}

func NewDigestBlockRepository(db *gorm.DB) contract.DigestBlockRepository {
	return &DigestBlockRepositoryImpl{
		db:     db,
		mapper: mapper.NewDigestBlockMapper(),
	}
}

func (r *DigestBlockRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DigestBlockRepositoryImpl) Create(ctx context.Context, block *entity.DigestBlock) error {
	m := r.mapper.ToModel(block)
	if err := r.db.WithContext(ctx).Omit("Bookmark").Create(m).Error; err != nil {
		return translateError(err, "block")
	}
	bookmark := block.Bookmark
	*block = *r.mapper.ToEntity(m)
	block.Bookmark = bookmark
	return nil
}

func (r *DigestBlockRepositoryImpl) UpdateContent(ctx context.Context, block *entity.DigestBlock) error {
	return r.db.WithContext(ctx).Model(&model.DigestBlock{}).
		Where("id = ?", block.Id).
		Updates(map[string]interface{}{
			"title":       block.Title,
			"description": block.Description,
			"text":        block.Text,
			"style":       block.Style,
		}).Error
}

func (r *DigestBlockRepositoryImpl) UpdatePosition(ctx context.Context, id uuid.UUID, position int) error {
	return r.db.WithContext(ctx).Model(&model.DigestBlock{}).
		Where("id = ?", id).
		Update("position", position).Error
}

func (r *DigestBlockRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DigestBlock{}, "id = ?", id).Error
}

func (r *DigestBlockRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DigestBlock, error) {
	var m model.DigestBlock
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DigestBlockRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DigestBlock, error) {
	var models []*model.DigestBlock
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DigestBlockRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DigestBlock{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DigestBlockRepositoryImpl) CountByDigestIDs(ctx context.Context, digestIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(digestIds))
	if len(digestIds) == 0 {
		return counts, nil
	}

	var rows []struct {
		DigestId uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&model.DigestBlock{}).
		Select("digest_id, COUNT(*) AS total").
		Where("digest_id IN ?", digestIds).
		Group("digest_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.DigestId] = row.Total
	}
	return counts, nil
}
