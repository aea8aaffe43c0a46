package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balain/bkmrkr/internal/cache"
	"github.com/balain/bkmrkr/internal/keys"
)

func TestWriteAndReadSnapshot(t *testing.T) {
	store, err := cache.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	contentKey := keys.ContentKey("https://example.com/a")
	snapshot := &cache.Snapshot{
		IngestionId: "0c5ae064-9a7d-4b32-8f2a-3a5a1c1f3f21",
		Url:         "https://example.com/a",
		StatusCode:  200,
		Status:      "200 OK",
		Title:       "Example",
		Icon:        "https://example.com/favicon.ico",
		ElapsedMs:   42,
		Timestamp:   1609459200000,
	}
	require.NoError(t, store.Write(contentKey, snapshot))

	_, err = os.Stat(filepath.Join(store.Dir, contentKey+".json"))
	require.NoError(t, err)

	loaded, err := store.Read(contentKey)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestWriteReplacesPreviousSnapshot(t *testing.T) {
	store, err := cache.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	key := keys.ContentKey("https://example.com/a")
	require.NoError(t, store.Write(key, &cache.Snapshot{Title: "old"}))
	require.NoError(t, store.Write(key, &cache.Snapshot{Title: "new"}))

	loaded, err := store.Read(key)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Title)
}

func TestNewSnapshotStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := cache.NewSnapshotStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
