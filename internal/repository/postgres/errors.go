package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const uniqueViolationCode = "23505"

var (
	ErrNotFound                 = errors.New("record not found")
	ErrDuplicate                = errors.New("record already exists")
	ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// translate maps driver errors onto the package sentinels and wraps the rest.
func translate(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return errors.Wrap(err, action)
}
