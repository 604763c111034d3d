package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestSetSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	s, err := Open(path)
	require.NoError(t, err)

	s.Set("name", "aardwolf")
	require.NoError(t, s.Save())

	reloaded, err := Open(path)
	require.NoError(t, err)
	v, ok := reloaded.Get("name")
	require.True(t, ok)
	assert.Equal(t, "aardwolf", v)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "x.yaml"))
	require.NoError(t, err)
	s.Set("a", 1)

	snap := s.Snapshot()

	s.Delete("a")
	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Restore(snap)
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
