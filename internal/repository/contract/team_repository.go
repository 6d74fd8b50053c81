package contract

import (
	"context"

	"digestly-be/internal/entity"
	"digestly-be/internal/repository/specification"
)

type TeamRepository interface {
	Create(ctx context.Context, team *entity.Team) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Team, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Team, error)

	CreateMembership(ctx context.Context, membership *entity.Membership) error
	FindMembership(ctx context.Context, specs ...specification.Specification) (*entity.Membership, error)
}
