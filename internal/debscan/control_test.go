package debscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

func TestParseControlRecord(t *testing.T) {
	data := []byte("Package: zsync\nVersion: 0.6.2-1\nSection: net\nArchitecture: amd64\nInstalled-Size: 256\n\n")
	fields, err := parseControlRecord(data)
	require.NoError(t, err)
	assert.Equal(t, "zsync", fields["Package"])
	assert.Equal(t, "0.6.2-1", fields["Version"])
	assert.Equal(t, "net", fields["Section"])
	assert.Equal(t, "amd64", fields["Architecture"])
	assert.Equal(t, "256", fields["Installed-Size"])
}

func TestParseControlRecord_MissingTerminator(t *testing.T) {
	data := []byte("Package: zsync\nVersion: 0.6.2-1\n")
	fields, err := parseControlRecord(data)
	require.NoError(t, err)
	assert.Equal(t, "zsync", fields["Package"])
}

func TestParseControlRecord_TabSeparator(t *testing.T) {
	data := []byte("Package:\tzsync\n\n")
	fields, err := parseControlRecord(data)
	require.NoError(t, err)
	assert.Equal(t, "zsync", fields["Package"])
}

func TestBuildControl(t *testing.T) {
	fields := map[string]string{
		"Package": "a2jmidid", "Version": "9-0", "Section": "sound",
		"Description": "bridge", "Architecture": "amd64",
		"Installed-Size": "100", "Maintainer": "AOSC", "Depends": "libc6",
	}
	c, err := buildControl(fields)
	require.NoError(t, err)
	assert.Equal(t, "a2jmidid", c.Package)
	assert.Equal(t, "libc6", c.Extra["Depends"])
	assert.Equal(t, "", c.Features)
}

func TestBuildControl_MissingField(t *testing.T) {
	fields := map[string]string{"Package": "a2jmidid"}
	_, err := buildControl(fields)
	require.Error(t, err)
	kind, ok := pverr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, pverr.MissingField, kind)
}

func TestBuildControl_Features(t *testing.T) {
	fields := map[string]string{
		"Package": "aosc-aaa", "Version": "11.6.0-1", "Section": "admin",
		"Description": "base", "Architecture": "amd64",
		"Installed-Size": "1", "Maintainer": "AOSC", "X-AOSC-Features": "core",
	}
	c, err := buildControl(fields)
	require.NoError(t, err)
	assert.Equal(t, "core", c.Features)
}

func TestControlInstalledSizeInt(t *testing.T) {
	c := Control{InstalledSize: "1024"}
	assert.EqualValues(t, 1024, c.InstalledSizeInt())

	c = Control{InstalledSize: "not-a-number"}
	assert.EqualValues(t, 0, c.InstalledSizeInt())
}
