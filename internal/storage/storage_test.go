package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/config"
	"github.com/user/memory-beacon/internal/interfaces"
)

func exerciseStore(t *testing.T, store interfaces.BlobStore) {
	t.Helper()

	_, ok, err := store.Read("saves")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write("saves", []byte(`{"version":"1.0.0"}`)))
	data, ok, err := store.Read("saves")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(data))

	require.NoError(t, store.Write("saves", []byte(`{"version":"1.1.0"}`)))
	data, _, err = store.Read("saves")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.1.0"}`, string(data))
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "saves"))
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Write("../escape", []byte("x")))
	_, _, err = store.Read("a/b")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "saves.db"), WithMkdirAll())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	store, err := OpenSQLite(":memory:", WithJournalMode("MEMORY"), WithBusyTimeout(100))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	exerciseStore(t, store)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)

	boom := errors.New("disk full")
	store.FailWrites(boom)
	assert.ErrorIs(t, store.Write("saves", []byte("{}")), boom)

	data, _, err := store.Read("saves")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.1.0"}`, string(data))

	store.FailWrites(nil)
	assert.NoError(t, store.Write("saves", []byte("{}")))
}

func TestMemoryStoreCopiesBlobs(t *testing.T) {
	store := NewMemoryStore()
	blob := []byte("abc")
	require.NoError(t, store.Write("k", blob))
	blob[0] = 'z'

	data, _, _ := store.Read("k")
	assert.Equal(t, "abc", string(data))
}

func TestOpenSelectsDriver(t *testing.T) {
	dir := t.TempDir()

	store, closer, err := Open(config.StorageConfig{Driver: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	assert.NoError(t, closer.Close())

	store, closer, err = Open(config.StorageConfig{Driver: "sqlite", DSN: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, closer.Close())

	store, _, err = Open(config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, _, err = Open(config.StorageConfig{Driver: "redis"})
	assert.Error(t, err)
}
