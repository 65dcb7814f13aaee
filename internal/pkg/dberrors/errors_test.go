package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "courses_number_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "requests_course_id_fkey"}

	tests := []struct {
		name       string
		err        error
		constraint string
		any        bool
		specific   bool
	}{
		{"matching constraint", dup, "courses_number_key", true, true},
		{"wrapped", fmt.Errorf("insert: %w", dup), "courses_number_key", true, true},
		{"other constraint", dup, "users_email_key", true, false},
		{"foreign key", fk, "requests_course_id_fkey", false, false},
		{"plain error", errors.New("boom"), "courses_number_key", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.any {
				t.Errorf("Expected IsUniqueViolation %v, got %v", tt.any, got)
			}
			if got := IsDuplicateConstraintError(tt.err, tt.constraint); got != tt.specific {
				t.Errorf("Expected IsDuplicateConstraintError %v, got %v", tt.specific, got)
			}
		})
	}
}
