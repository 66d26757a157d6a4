package config

import (
	"path/filepath"
	"runtime"
)

// Config represents the complete application configuration, mirroring the
// keys listed in the configuration table: connection string, mirror root,
// branch discovery mode, release metadata, signing certificate, notifier
// endpoint, and by-hash retention.
type Config struct {
	DBConn         string          `yaml:"db_pgconn"`
	Path           string          `yaml:"path"`
	Discover       bool            `yaml:"discover"`
	Origin         string          `yaml:"origin"`
	Label          string          `yaml:"label"`
	Codename       string          `yaml:"codename"`
	TTL            int             `yaml:"ttl"`
	Certificate    string          `yaml:"certificate"`
	ChangeNotifier string          `yaml:"change_notifier,omitempty"`
	AcquireByHash  int             `yaml:"acquire_by_hash"`
	Branches       []*BranchConfig `yaml:"branches"`
	Workers        WorkersConfig   `yaml:"workers,omitempty"`
	ConfigDir      string          `yaml:"-"` // directory containing the loaded file, set by Load
}

// BranchConfig describes one entry of the branch[] configuration list: a
// name, an optional human description, and an optional per-branch TTL
// override (section config.rs's BranchConfig.ttl in the source this was
// distilled from; the distilled table only said "{name, desc, ttl?}", so
// the override behavior is made explicit here).
type BranchConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"desc,omitempty"`
	TTL         *int   `yaml:"ttl,omitempty"`
}

// WorkersConfig sizes the CPU/blocking-I/O pool used for parsing and
// rendering. Zero means "default to runtime.NumCPU()".
type WorkersConfig struct {
	Parse  uint `yaml:"parse,omitempty"`
	Render uint `yaml:"render,omitempty"`
}

// EffectiveTTL returns the TTL in days to use for a branch: its own
// override if set, otherwise the global default.
func (c *Config) EffectiveTTL(branch *BranchConfig) int {
	if branch != nil && branch.TTL != nil {
		return *branch.TTL
	}
	return c.TTL
}

// BranchNames returns the configured branch names, used when Discover is
// false to restrict processing to an explicit list.
func (c *Config) BranchNames() []string {
	names := make([]string, 0, len(c.Branches))
	for _, b := range c.Branches {
		names = append(names, b.Name)
	}
	return names
}

// Branch looks up a branch's configuration by name, returning nil when
// absent (callers fall back to the global defaults in that case).
func (c *Config) Branch(name string) *BranchConfig {
	for _, b := range c.Branches {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// PoolPath returns the absolute path to the pool/ directory under the
// mirror root.
func (c *Config) PoolPath() string {
	return filepath.Join(c.Path, "pool")
}

// DistsPath returns the absolute path to the dists/ directory under the
// mirror root.
func (c *Config) DistsPath() string {
	return filepath.Join(c.Path, "dists")
}

// defaults applies default values to the configuration.
func (c *Config) defaults() {
	if c.TTL == 0 {
		c.TTL = 7
	}
	if c.Workers.Parse == 0 {
		c.Workers.Parse = uint(runtime.NumCPU())
	}
	if c.Workers.Render == 0 {
		c.Workers.Render = uint(runtime.NumCPU())
	}
}
