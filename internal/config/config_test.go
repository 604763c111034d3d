package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Connection:\n  Host: example.org\n"), 0o644))

	require.NoError(t, Load(path))
	c := Get()
	assert.Equal(t, "example.org", c.Connection.Host)
	assert.Equal(t, 23, c.Connection.Port)
	assert.Equal(t, 10, c.Logging.MaxSizeMB)
}

func TestGetValidatesWithoutLoad(t *testing.T) {
	configDataLock.Lock()
	configData = Config{}
	configDataLock.Unlock()

	c := Get()
	assert.Equal(t, 23, c.Connection.Port)
}
