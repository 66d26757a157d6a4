package sign

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskForKeyInfo(t *testing.T) {
	in := strings.NewReader("Jane Doe\njane@example.com\n")
	var out bytes.Buffer

	name, email, err := AskForKeyInfo(in, &out)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
	assert.Equal(t, "jane@example.com", email)
	assert.Contains(t, out.String(), "Your name")
	assert.Contains(t, out.String(), "Your e-mail address")
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "jane_example.com", sanitizeID("jane@example.com"))
}

func TestInstructions_ContainsPaths(t *testing.T) {
	out := Instructions("/tmp/a.pub", "/tmp/a.key", time.Now(), "/etc/pvector/config.yaml")
	assert.Contains(t, out, "/tmp/a.pub")
	assert.Contains(t, out, "/tmp/a.key")
	assert.Contains(t, out, "/etc/pvector/config.yaml")
}
