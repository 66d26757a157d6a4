package debscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

func TestSplitBranchComponent(t *testing.T) {
	branch, component, err := splitBranchComponent("stable/main/a2jmidid_9-0_amd64.deb")
	require.NoError(t, err)
	assert.Equal(t, "stable", branch)
	assert.Equal(t, "main", component)

	_, _, err = splitBranchComponent("stable/a2jmidid_9-0_amd64.deb")
	require.Error(t, err)
	kind, ok := pverr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, pverr.BadPath, kind)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{".", ""},
		{"./usr/bin", "usr/bin"},
		{"/usr/bin", "usr/bin"},
		{"usr/bin", "usr/bin"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePath(tt.in))
	}
}

func TestSplitSoName(t *testing.T) {
	name, version := SplitSoName("libclang.so.1")
	assert.Equal(t, "libclang.so", name)
	assert.Equal(t, ".1", version)

	name, version = SplitSoName("libclang.so")
	assert.Equal(t, "libclang.so", name)
	assert.Equal(t, "", version)
}

func TestIsSharedObject(t *testing.T) {
	assert.True(t, isSharedObject("./usr/lib/x86_64-linux-gnu/libfoo.so.1"))
	assert.True(t, isSharedObject("./lib/libfoo.so"))
	assert.True(t, isSharedObject("./usr/lib/libfoo.so.2.3"))
	assert.False(t, isSharedObject("./usr/bin/foo"))
	assert.False(t, isSharedObject("./usr/lib/foo.conf"))
}
