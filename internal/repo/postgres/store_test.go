package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "pricing_rules_pkey"}

	if !isUniqueViolation(dup) {
		t.Error("expected bare 23505 to be a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("failed to create pricing rule: %w", dup)) {
		t.Error("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign-key violation must not map to ALREADY_EXISTS")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Error("plain error must not map to ALREADY_EXISTS")
	}
	if isUniqueViolation(nil) {
		t.Error("nil error must not map to ALREADY_EXISTS")
	}
}
