package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeCheckViolation  = "23514"
)

// IsUniqueViolation reports whether the provided error references a
// Postgres unique violation. When constraintName is provided, the match
// is limited to that constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if code, constraint, ok := pgError(err); ok {
		if code != pgCodeUniqueViolation {
			return false
		}
		return constraintName == "" || constraint == constraintName
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}

// IsCheckViolation reports whether the provided error references a
// Postgres CHECK constraint violation. Value-range checks on the
// cancellations table surface through here as CONSTRAINT_VIOLATION
// instead of a generic storage failure.
func IsCheckViolation(err error) bool {
	if code, _, ok := pgError(err); ok {
		return code == pgCodeCheckViolation
	}
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "violates check constraint")
}

func pgError(err error) (code, constraint string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}
