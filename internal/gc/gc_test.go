package gc

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aosc-dev/p-vector-go/internal/config"
	pvlog "github.com/aosc-dev/p-vector-go/internal/log"
)

func TestCountNonByHashFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Packages"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "main", "binary-amd64"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main", "binary-amd64", "Packages"), []byte("y"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "by-hash", "SHA256"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "by-hash", "SHA256", "deadbeef"), []byte("z"), 0o644))

	count, err := countNonByHashFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPruneBranchByHash_RetainsConfiguredCopies(t *testing.T) {
	branchDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(branchDir, "Packages"), []byte("x"), 0o644))

	byHashDir := filepath.Join(branchDir, "by-hash", "SHA256")
	require.NoError(t, os.MkdirAll(byHashDir, 0o755))

	names := []string{"aaa", "bbb", "ccc"}
	now := time.Now()
	for i, name := range names {
		path := filepath.Join(byHashDir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
		mt := now.Add(time.Duration(-i) * time.Hour)
		require.NoError(t, os.Chtimes(path, mt, mt))
	}

	c := &Collector{
		Config: &config.Config{AcquireByHash: 2},
		Log:    slog.New(pvlog.NewHandler(os.Stderr, slog.LevelInfo)),
	}
	require.NoError(t, c.pruneBranchByHash(branchDir))

	remaining, err := os.ReadDir(byHashDir)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	_, err = os.Stat(filepath.Join(byHashDir, "ccc"))
	assert.True(t, os.IsNotExist(err), "oldest file should have been pruned")
}
