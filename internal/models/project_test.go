package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionInRange(t *testing.T) {
	rows := Collection{map[string]any{"name": "Alpha"}, map[string]any{"name": "Beta"}}

	assert.True(t, rows.InRange(0))
	assert.True(t, rows.InRange(1))
	assert.False(t, rows.InRange(2))
	assert.False(t, rows.InRange(-1))
	assert.False(t, Collection{}.InRange(0))
}

func TestCollectionSetStatus(t *testing.T) {
	t.Run("creates the field when absent", func(t *testing.T) {
		rows := Collection{map[string]any{"name": "Alpha"}}

		row, err := rows.SetStatus(0, "done")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "Alpha", "status": "done"}, row)
		assert.Equal(t, row, rows[0])
	})

	t.Run("replaces an existing status", func(t *testing.T) {
		rows := Collection{map[string]any{"name": "Alpha", "status": "todo"}}

		_, err := rows.SetStatus(0, "doing")
		require.NoError(t, err)
		assert.Equal(t, "doing", rows[0].(map[string]any)["status"])
	})

	t.Run("rejects rows that are not objects", func(t *testing.T) {
		rows := Collection{nil, "text"}

		_, err := rows.SetStatus(0, "done")
		assert.ErrorIs(t, err, ErrNotObject)
		_, err = rows.SetStatus(1, "done")
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("rejects out of range", func(t *testing.T) {
		_, err := Collection{}.SetStatus(0, "done")
		assert.Error(t, err)
	})
}
