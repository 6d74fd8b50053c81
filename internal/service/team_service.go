package service

import (
	"context"

	"digestly-be/internal/repository/specification"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/pkg/apperror"

	"github.com/google/uuid"
)

type ITeamService interface {
	EnsureMember(ctx context.Context, teamId, userId uuid.UUID) error
	// EnsureDigestAccess checks that userId belongs to the team owning digestId.
	EnsureDigestAccess(ctx context.Context, digestId, userId uuid.UUID) error
}

type teamService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTeamService(uowFactory unitofwork.RepositoryFactory) ITeamService {
	return &teamService{uowFactory: uowFactory}
}

func (s *teamService) EnsureMember(ctx context.Context, teamId, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	membership, err := uow.TeamRepository().FindMembership(ctx, specification.MemberOfTeam{TeamID: teamId, UserID: userId})
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.Forbidden("not a member of this team")
	}
	return nil
}

func (s *teamService) EnsureDigestAccess(ctx context.Context, digestId, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	digest, err := uow.DigestRepository().FindOne(ctx, specification.ByID{ID: digestId})
	if err != nil {
		return err
	}
	if digest == nil {
		return apperror.NotFound("digest not found")
	}
	return s.EnsureMember(ctx, digest.TeamId, userId)
}
