package debscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsElfParse(t *testing.T) {
	assert.True(t, needsElfParse([]byte{0x7f, 'E', 'L', 'F', 0x02}))
	assert.False(t, needsElfParse([]byte{0x7f, 'E', 'L'}))
	assert.False(t, needsElfParse([]byte("not an elf file")))
}

func TestElfNeeded_InvalidImage(t *testing.T) {
	_, err := elfNeeded([]byte{0x7f, 'E', 'L', 'F', 0, 0, 0, 0})
	assert.Error(t, err)
}
