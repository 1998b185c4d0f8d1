package format

import (
	"strings"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// TriviaKind distinguishes comments from blank-line runs.
type TriviaKind uint8

const (
	// TriviaComment is a comment on a line of its own.
	TriviaComment TriviaKind = iota
	// TriviaBlank is a run of one or more empty lines.
	TriviaBlank
)

// Trivia is non-semantic material found between two logical children.
type Trivia struct {
	Kind  TriviaKind
	Text  string // comment text, TriviaComment only
	Count int    // empty lines, TriviaBlank only
}

func commentTrivia(text string) Trivia { return Trivia{Kind: TriviaComment, Text: text} }

func blankTrivia(count int) Trivia { return Trivia{Kind: TriviaBlank, Count: count} }

// Child is a logical child of a node together with the comments and
// blank lines that follow it. Children are built per rule call and
// dropped afterwards.
type Child struct {
	Element syntax.Element

	// InlineComment is the comment on the same line right after the
	// element. It never appears in Trivia.
	InlineComment string
	// Trivia lists the comments and blank-line runs after the element
	// (and after InlineComment), up to the next logical child.
	Trivia []Trivia

	HasInlineComment bool
	HasTrivia        bool
	HasComments      bool
}

// Commented reports whether moving the child would move a comment or a
// blank line along with it.
func (c Child) Commented() bool {
	return c.HasInlineComment || c.HasTrivia
}

// firstTrivia returns the first trivia entry, if any.
func (c Child) firstTrivia() (Trivia, bool) {
	if len(c.Trivia) == 0 {
		return Trivia{}, false
	}
	return c.Trivia[0], true
}

// Children groups the direct children of n into logical children with
// their attached trivia, in source order. Trivia before the first logical
// child is not part of the result; see LeadingTrivia.
func Children(n *syntax.Node) []Child {
	var out []Child
	lineBroken := false

	for _, el := range n.Children {
		tok, ok := el.(*syntax.Token)
		if !ok || !tok.IsTrivia() {
			out = append(out, Child{Element: el})
			lineBroken = false
			continue
		}
		if len(out) == 0 {
			continue
		}

		cur := &out[len(out)-1]
		switch tok.Kind {
		case syntax.TokenWhitespace:
			nl := tok.Newlines()
			if nl > 0 {
				lineBroken = true
			}
			if nl > 1 {
				cur.Trivia = append(cur.Trivia, blankTrivia(nl-1))
			}
		case syntax.TokenComment:
			text := trimComment(tok.Lit)
			if !lineBroken && !cur.HasInlineComment && len(cur.Trivia) == 0 {
				cur.InlineComment = text
				cur.HasInlineComment = true
			} else {
				cur.Trivia = append(cur.Trivia, commentTrivia(text))
			}
			if strings.Contains(text, "\n") {
				lineBroken = true
			}
		}
	}

	for i := range out {
		c := &out[i]
		c.HasTrivia = len(c.Trivia) > 0
		c.HasComments = c.HasInlineComment
		for _, t := range c.Trivia {
			if t.Kind == TriviaComment {
				c.HasComments = true
				break
			}
		}
	}
	return out
}

// LeadingTrivia returns the comments and blank-line runs before the first
// logical child of n. Only the root node can have any.
func LeadingTrivia(n *syntax.Node) []Trivia {
	var out []Trivia
	for _, el := range n.Children {
		tok, ok := el.(*syntax.Token)
		if !ok || !tok.IsTrivia() {
			break
		}
		switch tok.Kind {
		case syntax.TokenWhitespace:
			if nl := tok.Newlines(); nl > 1 {
				out = append(out, blankTrivia(nl-1))
			}
		case syntax.TokenComment:
			out = append(out, commentTrivia(trimComment(tok.Lit)))
		}
	}
	return out
}

func trimComment(s string) string {
	return strings.TrimRight(s, " \t\r")
}
