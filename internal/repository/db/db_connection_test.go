package db

import (
	"context"
	"path/filepath"
	"testing"

	"phoneauth/internal/config"

	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := Open(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "users", name)
}

func TestOpen_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	first, err := Open(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpen_RejectsMemoryDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DriverMemory, "")
	require.Error(t, err)
}

func TestMigrate_UnknownDriver(t *testing.T) {
	require.Error(t, Migrate(context.Background(), nil, "oracle"))
}
