package engine

import (
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/nixfmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"default.nix":        "x\n",
		"pkgs/a.nix":         "x\n",
		"pkgs/b.nix":         "x\n",
		"pkgs/notes.txt":     "x\n",
		".git/hooks.nix":     "x\n",
		"vendor/dep.nix":     "x\n",
		"pkgs/generated.nix": "x\n",
	})

	tests := []struct {
		name    string
		exclude []string
		paths   []string
		want    []string
	}{
		{
			name:  "walks directories",
			paths: []string{dir},
			want:  []string{"default.nix", "pkgs/a.nix", "pkgs/b.nix", "pkgs/generated.nix", "vendor/dep.nix"},
		},
		{
			name:    "excludes by name and path",
			exclude: []string{"generated.nix", "vendor"},
			paths:   []string{dir},
			want:    []string{"default.nix", "pkgs/a.nix", "pkgs/b.nix"},
		},
		{
			name:  "explicit file keeps any extension",
			paths: []string{filepath.Join(dir, "pkgs", "notes.txt")},
			want:  []string{"pkgs/notes.txt"},
		},
		{
			name:  "duplicates removed",
			paths: []string{filepath.Join(dir, "pkgs"), filepath.Join(dir, "pkgs", "a.nix")},
			want:  []string{"pkgs/a.nix", "pkgs/b.nix", "pkgs/generated.nix"},
		},
		{
			name:    "relative glob",
			exclude: []string{"pkgs/*.nix"},
			paths:   []string{dir},
			want:    []string{"default.nix", "vendor/dep.nix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Config{Exclude: tt.exclude})
			got, err := e.Discover(tt.paths)
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, rel := range tt.want {
				want[i] = filepath.Join(dir, rel)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	e := newTestEngine(t, Config{})
	_, err := e.Discover([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}
