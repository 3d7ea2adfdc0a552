package storage_test

import (
	"os"
	"path/filepath"
	"taskManager/internal/client/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s storage.Storage) {
	t.Helper()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("a", "1"))
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, s.Set("a", "2"))
	v, _ = s.Get("a")
	assert.Equal(t, "2", v)

	require.NoError(t, s.Remove("a"))
	_, ok = s.Get("a")
	assert.False(t, ok)

	assert.NoError(t, s.Remove("a"))
}

func TestMemory(t *testing.T) {
	exercise(t, storage.NewMemory())
}

func TestFile(t *testing.T) {
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	exercise(t, f)
}

func TestFile_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	f, err := storage.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("session", "alice"))
	require.NoError(t, f.Set("token", "abc"))
	require.NoError(t, f.Remove("token"))

	reopened, err := storage.NewFile(path)
	require.NoError(t, err)
	v, ok := reopened.Get("session")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
	_, ok = reopened.Get("token")
	assert.False(t, ok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := storage.NewFile(path)
	assert.Error(t, err)
}

func TestFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	f, err := storage.NewFile(path)
	require.NoError(t, err)
	_, ok := f.Get("anything")
	assert.False(t, ok)
}
