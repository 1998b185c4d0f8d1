// Package syntax provides a lossless lexer and parser for Nix expressions.
//
// Every byte of the input ends up in exactly one token of the tree,
// whitespace and comments included, so that
//
//	tree.Text() == source
//
// always holds for a successfully parsed file. Formatters walk the tree
// and decide for themselves which trivia to keep.
package syntax

import "strings"

// Position is a location in the source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in bytes
	Offset int // 0-based byte offset
}

// Element is either a *Node or a *Token.
type Element interface {
	// Text returns the exact source text covered by the element.
	Text() string
	writeText(sb *strings.Builder)
	isElement()
}

// Token is a leaf of the syntax tree.
type Token struct {
	Kind TokenKind
	Lit  string
	Pos  Position
}

// Text implements Element.
func (t *Token) Text() string { return t.Lit }

func (t *Token) writeText(sb *strings.Builder) { sb.WriteString(t.Lit) }

func (*Token) isElement() {}

// IsTrivia reports whether the token is whitespace or a comment.
func (t *Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// Newlines counts the line breaks in the token text.
func (t *Token) Newlines() int { return strings.Count(t.Lit, "\n") }

// Node is an interior element of the syntax tree.
type Node struct {
	Kind     NodeKind
	Children []Element
}

// Text implements Element.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		c.writeText(sb)
	}
}

func (*Node) isElement() {}

// Tokens returns the direct token children of kind k.
func (n *Node) Tokens(k TokenKind) []*Token {
	var out []*Token
	for _, c := range n.Children {
		if t, ok := c.(*Token); ok && t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// Nodes returns the direct node children.
func (n *Node) Nodes() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if nd, ok := c.(*Node); ok {
			out = append(out, nd)
		}
	}
	return out
}

// Walk calls fn for every element under n in source order, n included.
// Returning false from fn skips the element's children.
func Walk(e Element, fn func(Element) bool) {
	if !fn(e) {
		return
	}
	if n, ok := e.(*Node); ok {
		for _, c := range n.Children {
			Walk(c, fn)
		}
	}
}

// IsTrivia reports whether e is a whitespace or comment token.
func IsTrivia(e Element) bool {
	t, ok := e.(*Token)
	return ok && t.IsTrivia()
}

// IsNode reports whether e is a node of kind k.
func IsNode(e Element, k NodeKind) bool {
	n, ok := e.(*Node)
	return ok && n.Kind == k
}

// IsToken reports whether e is a token of kind k.
func IsToken(e Element, k TokenKind) bool {
	t, ok := e.(*Token)
	return ok && t.Kind == k
}
