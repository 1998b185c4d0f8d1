package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/nixfmt/internal/cli/config"
	clitestutil "github.com/leapstack-labs/nixfmt/internal/cli/testutil"
	"github.com/leapstack-labs/nixfmt/internal/engine"
	"github.com/leapstack-labs/nixfmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dirty = "{ inherit c a b; x = 1; }"

// inProject runs the test from a fresh directory holding files.
func inProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, files)
	testutil.Chdir(t, dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	return dir
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"format", "tree", "repl", "version", "completion"}, names)

	for _, flag := range []string{"config", "indent-width", "use-tabs", "exclude", "workers", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	assert.NotNil(t, root.Flags().Lookup("check"))
}

func TestRootCmd_Stdin(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		env     map[string]string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "defaults",
			args: []string{"-"},
			want: "{\n  inherit a b c;\n  x = 1;\n}\n",
		},
		{
			name: "indent flag",
			args: []string{"--indent-width", "4", "-"},
			want: "{\n    inherit a b c;\n    x = 1;\n}\n",
		},
		{
			name:  "config file",
			files: map[string]string{"nixfmt.yaml": "use_tabs: true\n"},
			args:  []string{"-"},
			want:  "{\n\tinherit a b c;\n\tx = 1;\n}\n",
		},
		{
			name:  "flag beats config file",
			files: map[string]string{"nixfmt.toml": "use_tabs = true\n"},
			args:  []string{"--use-tabs=false", "-"},
			want:  "{\n  inherit a b c;\n  x = 1;\n}\n",
		},
		{
			name: "env",
			env:  map[string]string{"NIXFMT_INDENT_WIDTH": "3"},
			args: []string{"-"},
			want: "{\n   inherit a b c;\n   x = 1;\n}\n",
		},
		{
			name: "format subcommand",
			args: []string{"format", "-"},
			want: "{\n  inherit a b c;\n  x = 1;\n}\n",
		},
		{
			name:    "invalid setting",
			env:     map[string]string{"NIXFMT_INDENT_WIDTH": "99"},
			args:    []string{"-"},
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inProject(t, tt.files)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			res := clitestutil.Execute(t, NewRootCmd(), dirty, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, res.Err)
				assert.Contains(t, res.Err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.Stdout)
		})
	}
}

func TestRootCmd_Check(t *testing.T) {
	inProject(t, nil)
	res := clitestutil.Execute(t, NewRootCmd(), dirty, "--check", "-")
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, engine.ErrNotFormatted))
}

func TestRootCmd_FormatsWorkingDirectory(t *testing.T) {
	dir := inProject(t, map[string]string{
		"default.nix":         dirty,
		"excluded/skip.nix":   dirty,
		".hidden/ignored.nix": dirty,
	})

	res := clitestutil.Execute(t, NewRootCmd(), "", "--exclude", "excluded", "-o", "json")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, `"status": "formatted"`)
	assert.Contains(t, res.Stdout, `"total": 1`)

	formatted, err := os.ReadFile(filepath.Join(dir, "default.nix"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  inherit a b c;\n  x = 1;\n}\n", string(formatted))
	skipped, err := os.ReadFile(filepath.Join(dir, "excluded", "skip.nix"))
	require.NoError(t, err)
	assert.Equal(t, dirty, string(skipped))
}

func TestRootCmd_Verbose(t *testing.T) {
	inProject(t, map[string]string{"nixfmt.yml": "indent_width: 2\n"})
	res := clitestutil.Execute(t, NewRootCmd(), dirty, "-v", "-")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stderr, "Using config file: ")
	assert.Contains(t, res.Stderr, "nixfmt.yml")
}

func TestRootCmd_Version(t *testing.T) {
	inProject(t, nil)
	res := clitestutil.Execute(t, NewRootCmd(), "", "--version")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "nixfmt "+Version)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			inProject(t, nil)
			res := clitestutil.Execute(t, NewRootCmd(), "", "completion", shell)
			require.NoError(t, res.Err)
			assert.Contains(t, res.Stdout, "nixfmt")
		})
	}

	inProject(t, nil)
	res := clitestutil.Execute(t, NewRootCmd(), "", "completion", "tcsh")
	assert.Error(t, res.Err)
}
