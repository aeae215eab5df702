package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mambascraper/pkg/logger"
	"mambascraper/pkg/mamba"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cursor.json"), logger.NewNopLogger())
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	cursor, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, cursor)
	assert.False(t, store.Exists())
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	saved := mamba.Cursor{
		Type:           "default",
		SearchID:       mamba.NumberValue(42),
		SearcherOffset: mamba.StringValue("56"),
	}

	require.NoError(t, store.Save(saved))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"default","searchId":42,"searcherOffset":"56"}`, string(data))
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(mamba.Cursor{SearchID: mamba.StringValue("1"), SearcherOffset: mamba.StringValue("56")}))
	require.NoError(t, store.Save(mamba.Cursor{SearchID: mamba.StringValue("1"), SearcherOffset: mamba.StringValue("112")}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "112", loaded.SearcherOffset.String())
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(mamba.FreshCursor()))

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())

	// already absent
	require.NoError(t, store.Delete())

	cursor, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	cursor, err := store.Load()
	assert.Error(t, err)
	assert.Nil(t, cursor)
}

func TestSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "state")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0644))

	store := NewStore(filepath.Join(blocker, "cursor.json"), logger.NewNopLogger())
	assert.Error(t, store.Save(mamba.FreshCursor()))
}
