package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeExclusionViolation  = "23P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

func isExclusionViolation(err error) bool {
	return pgErrorCode(err) == codeExclusionViolation
}

// isConstraintViolation reports errors caused by bad input rather than by
// the database being unavailable.
func isConstraintViolation(err error) bool {
	switch pgErrorCode(err) {
	case codeForeignKeyViolation, codeCheckViolation:
		return true
	}
	return false
}
