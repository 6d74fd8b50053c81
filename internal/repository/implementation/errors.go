package implementation

import (
	"errors"
	"strings"

	"digestly-be/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps constraint violations onto conflict errors and passes everything else through.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Wrap(apperror.KindConflict, err, what+" already exists")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperror.Wrap(apperror.KindConflict, err, what+" references a missing record")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Wrap(apperror.KindConflict, err, what+" already exists")
		case pgForeignKeyViolation:
			return apperror.Wrap(apperror.KindConflict, err, what+" references a missing record")
		}
	}
	// sqlite reports constraints as plain text
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return apperror.Wrap(apperror.KindConflict, err, what+" already exists")
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return apperror.Wrap(apperror.KindConflict, err, what+" references a missing record")
	}
	return err
}
