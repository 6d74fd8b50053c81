package contract

import (
	"context"

	"digestly-be/internal/entity"
	"digestly-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LinkRepository interface {
	// FindOrCreate returns the link stored under link.Url, inserting it when absent.
	FindOrCreate(ctx context.Context, link *entity.Link) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Link, error)
}

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.Bookmark) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bookmark, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}
