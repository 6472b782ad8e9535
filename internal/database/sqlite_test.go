package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "rows.db"))
	require.NoError(t, err, "failed to create sqlite store")
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		return newTestSQLiteStore(t)
	})
}

func TestSQLiteStoreInMemory(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, []any{map[string]any{"name": "Alpha"}}))
	rows, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSQLiteStoreKeepsEncodedDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	require.NoError(t, store.Save(ctx, []any{map[string]any{"name": "Alpha"}}))

	var body string
	err := store.db.QueryRowContext(ctx, `SELECT body FROM collections WHERE name = ?`, collectionName).Scan(&body)
	require.NoError(t, err)
	assert.Equal(t, "[\n    {\n        \"name\": \"Alpha\"\n    }\n]\n", body)
}

func TestSQLiteStoreCorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	_, err := store.db.ExecContext(ctx, `INSERT INTO collections (name, body) VALUES (?, ?)`, collectionName, "{")
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
}
