package contract

import (
	"context"

	"digestly-be/internal/entity"
	"digestly-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DigestRepository interface {
	Create(ctx context.Context, digest *entity.Digest) error
	// UpdateMetadata writes title, slug, description, publication date and template flag.
	// The version column is left alone.
	UpdateMetadata(ctx context.Context, digest *entity.Digest) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Digest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Digest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SlugExists(ctx context.Context, teamId uuid.UUID, slug string, exclude *uuid.UUID) (bool, error)
	// BumpVersion increments the version of a live digest and returns the number of rows touched.
	// Inside a transaction the updated row stays locked until commit, serialising block writers.
	BumpVersion(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}
