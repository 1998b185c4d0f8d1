package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Lossless(t *testing.T) {
	inputs := []string{
		"x",
		"  # header\n\n{ a = 1; }\n",
		"{ inherit (pkgs) c a b; }",
		"let\n  a = 1; # one\n\n  b = 2;\nin\n  a + b\n",
		"{ a, b ? 2, ... }@args: a",
		"args @ { a }: a",
		"x: y: x // y",
		"if a then b else c",
		"with pkgs; [ hello /* block */ git ]",
		"assert a != null; a",
		"rec { a.b.c = \"s${x}\"; d = ''\n  multi ''${ line\n''; }",
		"f ./path ../up /abs ~/home <nixpkgs> https://example.org/x",
		"a.b or c",
		"-1.5e3 * 2 ++ [ ] -> !true || false && x ? y.z",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			root, err := Parse(src)
			require.NoError(t, err)
			assert.Equal(t, NodeRoot, root.Kind)
			assert.Equal(t, src, root.Text())
		})
	}
}

func TestParse_NodesNeverEdgeOnTrivia(t *testing.T) {
	src := "# c\n{\n  inherit # k\n    a b ;\n  x = [ 1 2 ]; # trailing\n}\n# end\n"
	root, err := Parse(src)
	require.NoError(t, err)

	Walk(root, func(e Element) bool {
		n, ok := e.(*Node)
		if !ok || n.Kind == NodeRoot {
			return true
		}
		require.NotEmpty(t, n.Children, "%s has no children", n.Kind)
		assert.False(t, IsTrivia(n.Children[0]), "%s starts with trivia", n.Kind)
		assert.False(t, IsTrivia(n.Children[len(n.Children)-1]), "%s ends with trivia", n.Kind)
		return true
	})
}

func TestParse_InheritShape(t *testing.T) {
	root, err := Parse("{ inherit (lib) mkIf \"quoted\" ; }")
	require.NoError(t, err)

	set := root.Nodes()[0]
	require.Equal(t, NodeAttrSet, set.Kind)
	inherit := set.Nodes()[0]
	require.Equal(t, NodeInherit, inherit.Kind)

	var kinds []string
	for _, c := range inherit.Children {
		if IsTrivia(c) {
			continue
		}
		switch e := c.(type) {
		case *Token:
			kinds = append(kinds, e.Kind.String())
		case *Node:
			kinds = append(kinds, e.Kind.String())
		}
	}
	assert.Equal(t, []string{"inherit", "InheritFrom", "IDENT", "STRING", ";"}, kinds)
}

func TestParse_Precedence(t *testing.T) {
	root, err := Parse("a + b * c")
	require.NoError(t, err)

	sum := root.Nodes()[0]
	require.Equal(t, NodeBinOp, sum.Kind)
	assert.Equal(t, "a + b * c", sum.Text())
	require.Len(t, sum.Nodes(), 1)
	assert.Equal(t, "b * c", sum.Nodes()[0].Text())
}

func TestParse_PatternVersusAttrSet(t *testing.T) {
	tests := []struct {
		src  string
		kind NodeKind
	}{
		{"{ }: 1", NodeLambda},
		{"{ }", NodeAttrSet},
		{"{ a }: a", NodeLambda},
		{"{ a, b }: a", NodeLambda},
		{"{ a = 1; }", NodeAttrSet},
		{"{ ... }: 1", NodeLambda},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, root.Nodes()[0].Kind)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		errSubstr string
	}{
		{"empty", "   ", "expected an expression"},
		{"missing semicolon", "{ a = 1 }", `expected ";"`},
		{"unterminated string", `"abc`, ErrUnterminatedString},
		{"unterminated comment", "/* x", ErrUnterminatedBlock},
		{"stray token", "a )", "end of input"},
		{"bad char", "a ` b", "unexpected character"},
		{"inherit without terminator", "{ inherit a }", `expected ";"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)

			var perr *ParseError
			var lerr *LexError
			assert.True(t, errors.As(err, &perr) || errors.As(err, &lerr), "unexpected error type %T", err)
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	src := ""
	for i := 0; i < MaxDepth+1; i++ {
		src += "("
	}
	src += "x"
	for i := 0; i < MaxDepth+1; i++ {
		src += ")"
	}

	_, err := Parse(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested deeper")
}

func TestParseError_Position(t *testing.T) {
	_, err := Parse("{\n  a = 1\n}")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Equal(t, 1, perr.Pos.Column)
}
