package contract

import (
	"context"

	"digestly-be/internal/entity"
	"digestly-be/internal/repository/specification"
)

type DigestActivityRepository interface {
	Create(ctx context.Context, activity *entity.DigestActivity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DigestActivity, error)
}
