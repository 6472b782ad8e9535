package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"project-rows/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		return NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	})
}

func TestFileStoreDoesNotCreateFileOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	_, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": `), 0644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStoreSaveLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	// compact, unordered keys, as a hand-edited file might look
	require.NoError(t, os.WriteFile(path, []byte(`[{"status":"todo","name":"Alpha","n":1e3}]`), 0644))
	store := NewFileStore(path)

	cycle := func() []byte {
		rows, err := store.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, rows))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}

	first := cycle()
	assert.Equal(t, first, cycle())
	assert.Equal(t, first, cycle())
	assert.Contains(t, string(first), `"n": 1e3`)
}

func TestFileStoreWriteFailure(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "db.json"))
	err := store.Save(context.Background(), models.Collection{})
	assert.Error(t, err)
}
