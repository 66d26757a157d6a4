package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_pgconn: postgres://localhost/pvector
path: /srv/mirror
discover: true
origin: AOSC OS
label: AOSC OS
ttl: 10
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/pvector", cfg.DBConn)
	assert.Equal(t, "/srv/mirror", cfg.Path)
	assert.True(t, cfg.Discover)
	assert.Equal(t, 10, cfg.TTL)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_pgconn: postgres://localhost/pvector
discover: false
`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
