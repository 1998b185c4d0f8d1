package commands

import (
	"path/filepath"
	"strings"
	"testing"

	clitestutil "github.com/leapstack-labs/nixfmt/internal/cli/testutil"
	"github.com/leapstack-labs/nixfmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTreeCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"a.nix": "{ inherit c a; } # end\n"})
	path := filepath.Join(dir, "a.nix")

	tests := []struct {
		name       string
		args       []string
		stdin      string
		want       []string
		notWant    []string
		errContain string
	}{
		{
			name:    "text",
			args:    []string{path},
			want:    []string{"Root\n", "  AttrSet\n", "    Inherit\n", `      IDENT "c"`},
			notWant: []string{"COMMENT", "WHITESPACE"},
		},
		{
			name: "text with trivia",
			args: []string{"--trivia", path},
			want: []string{`COMMENT "# end"`, "WHITESPACE"},
		},
		{
			name:  "stdin",
			args:  []string{"-"},
			stdin: "[ 1 ]",
			want:  []string{"List", `INTEGER "1"`},
		},
		{
			name: "steps",
			args: []string{"--steps", path},
			want: []string{`Format("{")`, "SingleSpace", `Format("inherit c a;")`, `Format("}")`},
		},
		{
			name:       "unknown format",
			args:       []string{"--format", "xml", path},
			errContain: "unknown tree format",
		},
		{
			name:       "parse error",
			args:       []string{"-"},
			stdin:      "{ a = 1 }",
			errContain: "<stdin>",
		},
		{
			name:       "missing file",
			args:       []string{filepath.Join(dir, "missing.nix")},
			errContain: "failed to read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useDefaults(t)
			res := clitestutil.Execute(t, NewTreeCommand(), tt.stdin, tt.args...)
			if tt.errContain != "" {
				require.Error(t, res.Err)
				assert.Contains(t, res.Err.Error(), tt.errContain)
				return
			}
			require.NoError(t, res.Err)
			for _, w := range tt.want {
				assert.Contains(t, res.Stdout, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, res.Stdout, w)
			}
		})
	}
}

func TestTreeCommand_YAML(t *testing.T) {
	useDefaults(t)
	res := clitestutil.Execute(t, NewTreeCommand(), "x: x", "--format", "yaml", "-")
	require.NoError(t, res.Err)

	var root treeNode
	require.NoError(t, yaml.Unmarshal([]byte(res.Stdout), &root))
	assert.Equal(t, "Root", root.Kind)
	require.Len(t, root.Children, 1)

	lambda := root.Children[0]
	assert.Equal(t, "Lambda", lambda.Kind)
	var kinds []string
	for _, c := range lambda.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, "IDENT : IDENT", strings.Join(kinds, " "))
	assert.Equal(t, 1, lambda.Children[0].Line)
}
