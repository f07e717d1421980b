package datastore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"goose_db_version", "services", "snapshots", "changes", "users", "subscriptions", "alerts", "scan_runs"} {
		assert.True(t, tableExists(t, db, table), table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.RunMigrations(context.Background()))
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	sentinel := errors.New("abort")

	err := db.InTx(ctx, func(ctx context.Context, repos *Repositories) error {
		require.NoError(t, repos.Services.Upsert(ctx, newService("stripe")))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	services, err := db.Repos().Services.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestInTx_RollsBackAndRethrowsPanic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = db.InTx(ctx, func(ctx context.Context, repos *Repositories) error {
			require.NoError(t, repos.Services.Upsert(ctx, newService("stripe")))
			panic("boom")
		})
	})

	services, err := db.Repos().Services.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestInTx_Commits(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InTx(ctx, func(ctx context.Context, repos *Repositories) error {
		return repos.Services.Upsert(ctx, newService("stripe"))
	}))

	services, err := db.Repos().Services.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)
}
