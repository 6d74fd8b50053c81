package contract

import (
	"context"

	"digestly-be/internal/entity"
	"digestly-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DigestBlockRepository interface {
	Create(ctx context.Context, block *entity.DigestBlock) error
	UpdateContent(ctx context.Context, block *entity.DigestBlock) error
	UpdatePosition(ctx context.Context, id uuid.UUID, position int) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DigestBlock, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DigestBlock, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByDigestIDs(ctx context.Context, digestIds []uuid.UUID) (map[uuid.UUID]int64, error)
}
