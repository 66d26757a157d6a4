package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTTL(t *testing.T) {
	override := 3
	cfg := &Config{TTL: 7}

	assert.Equal(t, 7, cfg.EffectiveTTL(nil))
	assert.Equal(t, 7, cfg.EffectiveTTL(&BranchConfig{Name: "stable"}))
	assert.Equal(t, 3, cfg.EffectiveTTL(&BranchConfig{Name: "testing", TTL: &override}))
}

func TestBranchLookup(t *testing.T) {
	cfg := &Config{
		Branches: []*BranchConfig{
			{Name: "stable"},
			{Name: "testing"},
		},
	}

	assert.Equal(t, []string{"stable", "testing"}, cfg.BranchNames())
	assert.NotNil(t, cfg.Branch("stable"))
	assert.Nil(t, cfg.Branch("unknown"))
}

func TestPoolAndDistsPath(t *testing.T) {
	cfg := &Config{Path: "/srv/mirror"}
	assert.Equal(t, "/srv/mirror/pool", cfg.PoolPath())
	assert.Equal(t, "/srv/mirror/dists", cfg.DistsPath())
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.defaults()
	assert.Equal(t, 7, cfg.TTL)
	assert.Positive(t, cfg.Workers.Parse)
	assert.Positive(t, cfg.Workers.Render)
}
