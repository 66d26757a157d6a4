package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrPathEmpty     = errors.New("path is required")
	ErrDBConnEmpty   = errors.New("db_pgconn is required")
	ErrNoBranches    = errors.New("discover is false but no branches are configured")
	ErrTTLNegative   = errors.New("ttl must not be negative")
	ErrAcquireByHash = errors.New("acquire_by_hash must not be negative")
)

// validate performs validation on the loaded configuration.
func validate(cfg *Config) error {
	if cfg.Path == "" {
		return ErrPathEmpty
	}
	if cfg.DBConn == "" {
		return ErrDBConnEmpty
	}
	if cfg.TTL < 0 {
		return ErrTTLNegative
	}
	if cfg.AcquireByHash < 0 {
		return ErrAcquireByHash
	}
	if !cfg.Discover && len(cfg.Branches) == 0 {
		return ErrNoBranches
	}
	for _, b := range cfg.Branches {
		if b.Name == "" {
			return fmt.Errorf("branch entry missing name")
		}
		if b.TTL != nil && *b.TTL < 0 {
			return fmt.Errorf("branch %s: %w", b.Name, ErrTTLNegative)
		}
	}
	return nil
}
