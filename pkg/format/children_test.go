package format

import (
	"testing"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childrenOf(t *testing.T, src string, k syntax.NodeKind) []Child {
	t.Helper()
	root, err := syntax.Parse(src)
	require.NoError(t, err)
	return Children(findNode(t, root, k))
}

func TestChildren_InlineVersusTrivia(t *testing.T) {
	children := childrenOf(t, "{ inherit a # x\n  b\n\n  # y\n  c; }", syntax.NodeInherit)
	require.Len(t, children, 5)

	keyword, a, b, c, semi := children[0], children[1], children[2], children[3], children[4]
	assert.False(t, keyword.Commented())

	assert.True(t, a.HasInlineComment)
	assert.Equal(t, "# x", a.InlineComment)
	assert.Empty(t, a.Trivia)
	assert.False(t, a.HasTrivia)
	assert.True(t, a.HasComments)

	assert.False(t, b.HasInlineComment)
	assert.Equal(t, []Trivia{
		{Kind: TriviaBlank, Count: 1},
		{Kind: TriviaComment, Text: "# y"},
	}, b.Trivia)
	assert.True(t, b.HasTrivia)
	assert.True(t, b.HasComments)

	assert.False(t, c.Commented())
	assert.Equal(t, ";", semi.Element.Text())
}

func TestChildren_CommentAfterLineBreakIsTrivia(t *testing.T) {
	children := childrenOf(t, "[ a\n  # c\n  b ]", syntax.NodeList)
	require.Len(t, children, 4)

	a := children[1]
	assert.False(t, a.HasInlineComment)
	assert.Equal(t, []Trivia{{Kind: TriviaComment, Text: "# c"}}, a.Trivia)
}

func TestChildren_BlankRuns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Trivia
	}{
		{"single newline", "[ a\n  b ]", nil},
		{"one empty line", "[ a\n\n  b ]", []Trivia{{Kind: TriviaBlank, Count: 1}}},
		{"three empty lines", "[ a\n\n\n\n  b ]", []Trivia{{Kind: TriviaBlank, Count: 3}}},
		{"blank only", "[ a\n  \n  b ]", []Trivia{{Kind: TriviaBlank, Count: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			children := childrenOf(t, tt.input, syntax.NodeList)
			require.Len(t, children, 4)
			assert.Equal(t, tt.expected, children[1].Trivia)
			assert.Equal(t, tt.expected != nil, children[1].Commented())
			assert.False(t, children[1].HasComments)
		})
	}
}

func TestChildren_CommentTrimmed(t *testing.T) {
	children := childrenOf(t, "[ a # c   \t\n  /* block */  \n  b ]", syntax.NodeList)
	require.Len(t, children, 4)

	a := children[1]
	assert.Equal(t, "# c", a.InlineComment)
	assert.Equal(t, []Trivia{{Kind: TriviaComment, Text: "/* block */"}}, a.Trivia)
}

func TestChildren_MultiLineBlockComment(t *testing.T) {
	children := childrenOf(t, "[ a /* one\n two */ # after\n  b ]", syntax.NodeList)
	require.Len(t, children, 4)

	a := children[1]
	assert.Equal(t, "/* one\n two */", a.InlineComment)
	assert.Equal(t, []Trivia{{Kind: TriviaComment, Text: "# after"}}, a.Trivia)
}

func TestLeadingTrivia(t *testing.T) {
	root, err := syntax.Parse("# h\n\n\n/* b */ x")
	require.NoError(t, err)

	assert.Equal(t, []Trivia{
		{Kind: TriviaComment, Text: "# h"},
		{Kind: TriviaBlank, Count: 2},
		{Kind: TriviaComment, Text: "/* b */"},
	}, LeadingTrivia(root))

	children := Children(root)
	require.Len(t, children, 1)
	assert.Equal(t, "x", children[0].Element.Text())
}
