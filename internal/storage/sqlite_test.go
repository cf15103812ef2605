package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStorage(t *testing.T) {
	store := newTestStorage(t)
	assert.NotNil(t, store)
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)

	_, err = NewSQLiteStorage("   ")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()))
}

func TestMigrateOnDiskDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "podium.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Close())

	// Reopening picks up the existing schema version.
	store, err = NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(context.Background()))

	count, err := store.GetCatalogCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
