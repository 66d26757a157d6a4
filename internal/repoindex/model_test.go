package repoindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepoKey(t *testing.T) {
	assert.Equal(t, "amd64", RepoKey("main", "amd64"))
	assert.Equal(t, "contrib-amd64", RepoKey("contrib", "amd64"))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "core", nullable("core"))
}

func TestRelationshipOrderCovers(t *testing.T) {
	assert.Len(t, RelationshipOrder, 10)
	assert.Equal(t, RelDepends, RelationshipOrder[0])
	assert.Equal(t, RelMultiArch, RelationshipOrder[len(RelationshipOrder)-1])
}
