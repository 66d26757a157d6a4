package debscan

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTarGz(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func buildDeb(t *testing.T, control, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := ar.NewWriter(&buf)
	require.NoError(t, w.WriteGlobalHeader())

	write := func(name string, body []byte) {
		require.NoError(t, w.WriteHeader(&ar.Header{
			Name: name, Size: int64(len(body)), Mode: 0644, ModTime: time.Unix(1700000000, 0),
		}))
		_, err := w.Write(body)
		require.NoError(t, err)
	}
	write("control.tar.gz", control)
	write("data.tar.gz", data)

	return buf.Bytes()
}

func TestParse_RoundTrip(t *testing.T) {
	control := buildTarGz(t, map[string]string{
		"./control": "Package: a2jmidid\nVersion: 9-0\nSection: sound\nDescription: bridge\n" +
			"Architecture: amd64\nInstalled-Size: 100\nMaintainer: AOSC\nDepends: libc6\n\n",
	})
	data := buildTarGz(t, map[string]string{
		"./usr/bin/a2jmidid": "binary-stub-content",
	})
	debBytes := buildDeb(t, control, data)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "stable", "main"), 0755))
	path := filepath.Join(dir, "stable", "main", "a2jmidid_9-0_amd64.deb")
	require.NoError(t, os.WriteFile(path, debBytes, 0644))

	parsed, err := Parse(dir, path)
	require.NoError(t, err)
	assert.Equal(t, "a2jmidid", parsed.Control.Package)
	assert.Equal(t, "9-0", parsed.Control.Version)
	assert.Equal(t, "stable", parsed.Branch)
	assert.Equal(t, "main", parsed.Component)
	assert.Equal(t, "libc6", parsed.Control.Extra["Depends"])
	assert.Len(t, parsed.SHA256, 64)
	assert.Len(t, parsed.Files, 1)
	assert.Equal(t, "usr/bin", parsed.Files[0].Path)
	assert.Equal(t, "a2jmidid", parsed.Files[0].Name)
}

func TestParse_MissingField(t *testing.T) {
	control := buildTarGz(t, map[string]string{
		"./control": "Package: a2jmidid\n\n",
	})
	data := buildTarGz(t, map[string]string{})
	debBytes := buildDeb(t, control, data)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "stable", "main"), 0755))
	path := filepath.Join(dir, "stable", "main", "bad_1_amd64.deb")
	require.NoError(t, os.WriteFile(path, debBytes, 0644))

	_, err := Parse(dir, path)
	require.Error(t, err)
}

func TestParse_BadPath(t *testing.T) {
	control := buildTarGz(t, map[string]string{"./control": "Package: a\nVersion: 1\nSection: s\nDescription: d\nArchitecture: amd64\nInstalled-Size: 1\nMaintainer: m\n\n"})
	data := buildTarGz(t, map[string]string{})
	debBytes := buildDeb(t, control, data)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "stable"), 0755))
	path := filepath.Join(dir, "stable", "a_1_amd64.deb")
	require.NoError(t, os.WriteFile(path, debBytes, 0644))

	_, err := Parse(dir, path)
	require.Error(t, err)
}
