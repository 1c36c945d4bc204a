package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aisleworks/aisle/pkg/serrors"
)

const pgUniqueViolation = "23505"

// translateDBError maps the driver errors callers are expected to handle onto
// the domain taxonomy. Anything else passes through as an infrastructure
// error, which carries no taxonomy code.
func translateDBError(err error, notFound, conflict *serrors.BaseError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && conflict != nil {
		return conflict
	}
	return err
}
