package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// DuplicateField returns the column behind a unique-constraint violation,
// so handlers can answer 400 with the offending field name.
func DuplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return "username", true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	case strings.Contains(pgErr.ConstraintName, "transaction"):
		return "transaction_id", true
	}
	return pgErr.ConstraintName, true
}
