package release

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

func TestWriteStanza_FieldOrder(t *testing.T) {
	p := repoindex.ComponentPackage{
		Package: repoindex.Package{
			Name: "zsync", Version: "1.0", Section: "net", Architecture: "amd64",
			InstalledSize: 42, Maintainer: "Someone <a@b.c>", Filename: "pool/a/zsync_1.0_amd64.deb",
			Size: 1000, SHA256: "deadbeef", Description: "a tool", Features: "verify",
		},
		Dependencies: []repoindex.PackageDependency{
			{Relationship: repoindex.RelProvides, Value: "zsync-provided"},
			{Relationship: repoindex.RelDepends, Value: "libc6"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeStanza(&buf, p))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var keys []string
	for _, l := range lines {
		keys = append(keys, strings.SplitN(l, ":", 2)[0])
	}
	assert.Equal(t, []string{
		"Package", "Version", "Section", "Architecture", "Installed-Size",
		"Maintainer", "Filename", "Size", "SHA256", "Description",
		"Depends", "Provides", "X-AOSC-Features",
	}, keys)
}

func TestWriteStanza_OmitsEmptyFields(t *testing.T) {
	p := repoindex.ComponentPackage{Package: repoindex.Package{Name: "x", Version: "1"}}
	var buf bytes.Buffer
	require.NoError(t, writeStanza(&buf, p))
	assert.NotContains(t, buf.String(), "Section:")
	assert.NotContains(t, buf.String(), "X-AOSC-Features:")
}
