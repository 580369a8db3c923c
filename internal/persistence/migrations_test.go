package persistence

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunMigrations_NilDBSkips(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestRunMigrations_CallsGoose(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()

	var gotDir string
	gooseUp = func(_ context.Context, got *sql.DB, dir string) error {
		require.Same(t, db, got)
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db, zap.NewNop()))
	require.Equal(t, "migrations", gotDir)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()
	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("boom") }

	require.ErrorContains(t, RunMigrations(context.Background(), db, zap.NewNop()), "boom")
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
