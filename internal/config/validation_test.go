package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{
			name:    "missing path",
			cfg:     &Config{DBConn: "x"},
			wantErr: ErrPathEmpty,
		},
		{
			name:    "missing db conn",
			cfg:     &Config{Path: "/srv"},
			wantErr: ErrDBConnEmpty,
		},
		{
			name:    "negative ttl",
			cfg:     &Config{Path: "/srv", DBConn: "x", TTL: -1},
			wantErr: ErrTTLNegative,
		},
		{
			name:    "no branches without discover",
			cfg:     &Config{Path: "/srv", DBConn: "x", Discover: false},
			wantErr: ErrNoBranches,
		},
		{
			name: "discover true needs no branches",
			cfg:  &Config{Path: "/srv", DBConn: "x", Discover: true},
		},
		{
			name: "branch with negative ttl override",
			cfg: &Config{
				Path: "/srv", DBConn: "x", Discover: false,
				Branches: []*BranchConfig{{Name: "stable", TTL: &neg}},
			},
			wantErr: ErrTTLNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.cfg)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
