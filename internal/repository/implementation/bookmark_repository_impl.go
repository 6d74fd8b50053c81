package implementation

import (
	"context"
	"errors"

	"digestly-be/internal/entity"
	"digestly-be/internal/mapper"
	"digestly-be/internal/model"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/specification"
	"digestly-be/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LinkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookmarkMapper
}

func NewLinkRepository(db *gorm.DB) contract.LinkRepository {
	return &LinkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookmarkMapper(),
	}
}

func (r *LinkRepositoryImpl) FindOrCreate(ctx context.Context, link *entity.Link) error {
	existing, err := r.FindOne(ctx, specification.ByUrl{Url: link.Url})
	if err != nil {
		return err
	}
	if existing != nil {
		*link = *existing
		return nil
	}

	if link.Id == uuid.Nil {
		link.Id = uuid.New()
	}
	m := r.mapper.LinkToModel(link)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		err = translateError(err, "link")
		if !errors.Is(err, apperror.ErrConflict) {
			return err
		}
		// lost the race against a concurrent insert of the same url
		existing, findErr := r.FindOne(ctx, specification.ByUrl{Url: link.Url})
		if findErr != nil || existing == nil {
			return err
		}
		*link = *existing
		return nil
	}
	*link = *r.mapper.LinkToEntity(m)
	return nil
}

func (r *LinkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Link, error) {
	var m model.Link
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LinkToEntity(&m), nil
}

type BookmarkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookmarkMapper
}

func NewBookmarkRepository(db *gorm.DB) contract.BookmarkRepository {
	return &BookmarkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookmarkMapper(),
	}
}

func (r *BookmarkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookmarkRepositoryImpl) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	m := r.mapper.ToModel(bookmark)
	if err := r.db.WithContext(ctx).Omit("Link").Create(m).Error; err != nil {
		return translateError(err, "bookmark")
	}
	link := bookmark.Link
	*bookmark = *r.mapper.ToEntity(m)
	bookmark.Link = link
	return nil
}

func (r *BookmarkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bookmark, error) {
	var m model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookmarkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error) {
	var models []*model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookmarkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Bookmark{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementViews bumps the counter and returns the new value, or 0 when the bookmark is unknown.
func (r *BookmarkRepositoryImpl) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	var views int64
	if err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("id = ?", id).
		Select("views").
		Scan(&views).Error; err != nil {
		return 0, err
	}
	return views, nil
}
