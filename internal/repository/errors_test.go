package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	wrapped := func(code string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: code})
	}

	tests := []struct {
		name       string
		err        error
		unique     bool
		exclusion  bool
		constraint bool
	}{
		{"unique", wrapped("23505"), true, false, false},
		{"exclusion", wrapped("23P01"), false, true, false},
		{"foreign key", wrapped("23503"), false, false, true},
		{"check", wrapped("23514"), false, false, true},
		{"plain error", errors.New("connection refused"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("isUniqueViolation = %v, want %v", got, tt.unique)
			}
			if got := isExclusionViolation(tt.err); got != tt.exclusion {
				t.Errorf("isExclusionViolation = %v, want %v", got, tt.exclusion)
			}
			if got := isConstraintViolation(tt.err); got != tt.constraint {
				t.Errorf("isConstraintViolation = %v, want %v", got, tt.constraint)
			}
		})
	}
}
