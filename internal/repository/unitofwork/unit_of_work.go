package unitofwork

import (
	"context"

	"digestly-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TeamRepository() contract.TeamRepository
	LinkRepository() contract.LinkRepository
	BookmarkRepository() contract.BookmarkRepository
	DigestRepository() contract.DigestRepository
	DigestBlockRepository() contract.DigestBlockRepository
	DigestActivityRepository() contract.DigestActivityRepository
}
