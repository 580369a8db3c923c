package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert: %w", dup)

	assert.True(t, isUniqueViolation(wrapped, "users_email_key"))
	assert.True(t, isUniqueViolation(dup, ""))
	assert.False(t, isUniqueViolation(dup, "hospitals_name_key"))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}

func TestMapNoRows(t *testing.T) {
	assert.ErrorIs(t, mapNoRows(pgx.ErrNoRows), ErrNotFound)
	other := errors.New("boom")
	assert.Equal(t, other, mapNoRows(other))
}
