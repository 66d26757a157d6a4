package pverr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatal_PerFileKindsAreNotFatal(t *testing.T) {
	for _, kind := range []Kind{BadPath, UnsupportedFormat, MissingField, ControlParse, ElfParse, HashMismatch, IoError} {
		err := New(kind, "debscan", errors.New("boom"))
		assert.False(t, Fatal(err), "kind %s should not be fatal", kind)
	}
}

func TestFatal_BatchKindsAreFatal(t *testing.T) {
	for _, kind := range []Kind{DbError, SignError, TemplateError} {
		err := New(kind, "repoindex", errors.New("boom"))
		assert.True(t, Fatal(err), "kind %s should be fatal", kind)
	}
}

func TestFatal_UnwrappedErrorIsFatal(t *testing.T) {
	assert.True(t, Fatal(errors.New("plain error, no Kind attached")))
}

func TestErrorFormatting(t *testing.T) {
	err := New(ControlParse, "scan", errors.New("missing blank line"))
	assert.Equal(t, "while scan: ControlParse: missing blank line", err.Error())

	bare := New(BadPath, "", errors.New("bad"))
	assert.Equal(t, "BadPath: bad", bare.Error())
}

func TestErrorIs(t *testing.T) {
	a := New(BadPath, "debscan", errors.New("one"))
	b := New(BadPath, "scanner", errors.New("two"))
	c := New(IoError, "debscan", errors.New("three"))

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(New(HashMismatch, "debscan", errors.New("x")))
	assert.True(t, ok)
	assert.Equal(t, HashMismatch, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
