package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/utsavjain246/shortify/internal/domain"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// translateErr maps driver errors to the domain taxonomy at the repository
// boundary so nothing above this package sees pgx types.
func translateErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrDuplicateCode
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
	}
}
