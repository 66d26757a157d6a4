package release

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInRelease_DefaultDescriptionAndSorting(t *testing.T) {
	d := inReleaseData{
		Origin: "AOSC OS", Label: "AOSC OS", Suite: "stable", Codename: "stable",
		Date: "now", ValidUntil: "later",
		Architectures: "amd64 arm64", Components: "main",
		AcquireByHash: true,
		Files: []fileEntry{
			{Path: "main/binary-amd64/Packages", Size: 10, SHA256: "aaa"},
			{Path: "InRelease", Size: 1, SHA256: "bbb"}, // not filtered here, just ordering
		},
	}

	var buf bytes.Buffer
	require.NoError(t, renderInRelease(&buf, d))
	out := buf.String()

	assert.Contains(t, out, "Description: AOSC OS Topic: stable")
	assert.Contains(t, out, "Acquire-By-Hash: yes")
	assert.Contains(t, out, "SHA256:\n")

	idxInRelease := indexOf(out, "InRelease")
	idxPackages := indexOf(out, "main/binary-amd64/Packages")
	assert.True(t, idxInRelease < idxPackages, "files should render sorted by path")
}

func TestRenderInRelease_ExplicitDescriptionAndNoByHash(t *testing.T) {
	d := inReleaseData{Suite: "stable", Description: "custom description", AcquireByHash: false}
	var buf bytes.Buffer
	require.NoError(t, renderInRelease(&buf, d))
	out := buf.String()
	assert.Contains(t, out, "Description: custom description")
	assert.NotContains(t, out, "Acquire-By-Hash")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestNeedsRegeneration_MissingFile(t *testing.T) {
	needs, err := needsRegeneration(filepath.Join(t.TempDir(), "InRelease"), 0)
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestNeedsRegeneration_RepoNewerThanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "InRelease")
	content := "Valid-Until: " + time.Now().Add(72*time.Hour).UTC().Format(releaseDateLayout) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	needs, err := needsRegeneration(path, time.Now().Unix())
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestNeedsRegeneration_ValidUntilSoonTriggersRefresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "InRelease")
	content := "Valid-Until: " + time.Now().Add(12*time.Hour).UTC().Format(releaseDateLayout) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	needs, err := needsRegeneration(path, 0)
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestNeedsRegeneration_FreshAndFarFromExpiry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "InRelease")
	content := "Valid-Until: " + time.Now().Add(72*time.Hour).UTC().Format(releaseDateLayout) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	needs, err := needsRegeneration(path, 0)
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestReadValidUntil_Unparseable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "InRelease")
	require.NoError(t, os.WriteFile(path, []byte("Valid-Until: garbage\n"), 0o644))
	_, ok := readValidUntil(path)
	assert.False(t, ok)
}
