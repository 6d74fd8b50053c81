package unitofwork

import (
	"context"
	"fmt"

	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // non-nil between Begin and Commit/Rollback
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) TeamRepository() contract.TeamRepository {
	return implementation.NewTeamRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LinkRepository() contract.LinkRepository {
	return implementation.NewLinkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) BookmarkRepository() contract.BookmarkRepository {
	return implementation.NewBookmarkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DigestRepository() contract.DigestRepository {
	return implementation.NewDigestRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DigestBlockRepository() contract.DigestBlockRepository {
	return implementation.NewDigestBlockRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DigestActivityRepository() contract.DigestActivityRepository {
	return implementation.NewDigestActivityRepository(u.getDB())
}
