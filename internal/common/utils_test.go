package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPublishable(t *testing.T) {
	tests := []struct {
		name    string
		relPath string
		isDir   bool
		want    bool
	}{
		{"plain file", "main/binary-amd64/Packages", false, true},
		{"directory skipped", "main/binary-amd64", true, false},
		{"dotfile skipped", "main/.gitkeep", false, false},
		{"InRelease skipped", "InRelease", false, false},
		{"deprecated skipped", "DEPRECATED-2021", false, false},
		{"by-hash skipped", "main/by-hash/SHA256/abcd", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPublishable(tt.relPath, tt.isDir)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureHardlink(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("create new hardlink", func(t *testing.T) {
		src := filepath.Join(tmpDir, "source1.txt")
		dst := filepath.Join(tmpDir, "dest1.txt")

		require.NoError(t, os.WriteFile(src, []byte("test content"), 0644))
		require.NoError(t, EnsureHardlink(src, dst))

		dstContent, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "test content", string(dstContent))

		srcInfo, err := os.Lstat(src)
		require.NoError(t, err)
		dstInfo, err := os.Lstat(dst)
		require.NoError(t, err)
		assert.True(t, os.SameFile(srcInfo, dstInfo))
	})

	t.Run("hardlink already exists to same file", func(t *testing.T) {
		src := filepath.Join(tmpDir, "source2.txt")
		dst := filepath.Join(tmpDir, "dest2.txt")

		require.NoError(t, os.WriteFile(src, []byte("test content"), 0644))
		require.NoError(t, EnsureHardlink(src, dst))
		require.NoError(t, EnsureHardlink(src, dst))

		srcInfo, err := os.Lstat(src)
		require.NoError(t, err)
		dstInfo, err := os.Lstat(dst)
		require.NoError(t, err)
		assert.True(t, os.SameFile(srcInfo, dstInfo))
	})

	t.Run("replace existing different file", func(t *testing.T) {
		src := filepath.Join(tmpDir, "source3.txt")
		dst := filepath.Join(tmpDir, "dest3.txt")

		require.NoError(t, os.WriteFile(src, []byte("new content"), 0644))
		require.NoError(t, os.WriteFile(dst, []byte("old content"), 0644))

		require.NoError(t, EnsureHardlink(src, dst))

		dstContent, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "new content", string(dstContent))
	})

	t.Run("source file does not exist", func(t *testing.T) {
		src := filepath.Join(tmpDir, "nonexistent.txt")
		dst := filepath.Join(tmpDir, "dest4.txt")

		err := EnsureHardlink(src, dst)
		assert.Error(t, err)
	})

	t.Run("concurrent hardlink creation", func(t *testing.T) {
		src := filepath.Join(tmpDir, "source5.txt")
		dst := filepath.Join(tmpDir, "dest5.txt")

		require.NoError(t, os.WriteFile(src, []byte("concurrent test"), 0644))

		done := make(chan error, 3)
		for i := 0; i < 3; i++ {
			go func() {
				done <- EnsureHardlink(src, dst)
			}()
		}
		for i := 0; i < 3; i++ {
			require.NoError(t, <-done)
		}

		srcInfo, err := os.Lstat(src)
		require.NoError(t, err)
		dstInfo, err := os.Lstat(dst)
		require.NoError(t, err)
		assert.True(t, os.SameFile(srcInfo, dstInfo))
	})
}
