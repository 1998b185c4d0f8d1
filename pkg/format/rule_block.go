package format

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// ruleRoot writes the file: header comments, the expression, trailing
// comments, one line each. Runs of empty lines shrink to one.
func ruleRoot(_ BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	if len(children) != 1 {
		contractf(n, "expected one expression, got %d", len(children))
	}
	expr := children[0]

	var s steps
	wrote := false
	for _, t := range LeadingTrivia(n) {
		switch t.Kind {
		case TriviaComment:
			s.push(commentStep(t.Text), newLineStep)
			wrote = true
		case TriviaBlank:
			if wrote {
				s.push(newLineStep)
			}
		}
	}

	s.push(formatStep(expr.Element))
	if expr.HasInlineComment {
		s.push(spaceStep, commentStep(expr.InlineComment))
	}
	s.pushStandalone(expr.Trivia, false)
	s.push(newLineStep)
	return s
}

// ruleAttrSet writes [rec] { bindings }. Empty sets become "{ }", a single
// binding without comments stays on one line, anything else gets one
// binding per line.
func ruleAttrSet(ctx BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	var s steps
	if len(children) > 0 && syntax.IsToken(children[0].Element, syntax.TokenRec) {
		if children[0].Commented() {
			return passThrough(ctx, n)
		}
		s.push(formatStep(children[0].Element), spaceStep)
		children = children[1:]
	}
	if len(children) < 2 {
		contractf(n, "expected braces, got %d children", len(children))
	}
	s.block(ctx, children, 1)
	return s
}

// ruleList writes [ items ] with the same layout choices as attribute sets.
func ruleList(ctx BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	if len(children) < 2 {
		contractf(n, "expected brackets, got %d children", len(children))
	}
	var s steps
	s.block(ctx, children, 1)
	return s
}

// block writes a delimited sequence: children[0] opens it, the last child
// closes it and everything in between is an item. At most maxInline items
// without comments stay on the opening line.
func (s *steps) block(ctx BuildContext, children []Child, maxInline int) {
	open, closing := children[0], children[len(children)-1]
	items := children[1 : len(children)-1]
	commented := open.Commented() || slices.ContainsFunc(items, Child.Commented)
	short := !ctx.Vertical && len(items) <= maxInline && allItemsInline(items)

	if !commented && (len(items) == 0 || short) {
		s.push(formatStep(open.Element), spaceStep)
		for _, it := range items {
			s.push(formatStep(it.Element), spaceStep)
		}
		s.push(formatStep(closing.Element))
		return
	}

	s.push(formatStep(open.Element))
	if open.HasInlineComment {
		s.push(spaceStep, commentStep(open.InlineComment))
	}
	s.push(indentStep)
	s.pushStandalone(open.Trivia, len(items) > 0)
	s.pushItems(items)
	s.push(dedentStep)
	s.lineBreak()
	s.push(formatStep(closing.Element))
}

// ruleLetIn writes
//
//	let
//	  bindings
//	in
//	  body
func ruleLetIn(_ BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	if len(children) < 3 {
		contractf(n, "expected let ... in body, got %d children", len(children))
	}
	let, in, body := children[0], children[len(children)-2], children[len(children)-1]
	if !syntax.IsToken(in.Element, syntax.TokenIn) {
		contractf(n, "missing in keyword")
	}
	bindings := children[1 : len(children)-2]

	var s steps
	s.push(formatStep(let.Element))
	if let.HasInlineComment {
		s.push(spaceStep, commentStep(let.InlineComment))
	}
	s.push(indentStep)
	s.pushStandalone(let.Trivia, len(bindings) > 0)
	s.pushItems(bindings)
	s.push(dedentStep)

	s.lineBreak()
	s.push(formatStep(in.Element))
	if in.HasInlineComment {
		s.push(spaceStep, commentStep(in.InlineComment))
	}
	s.push(indentStep)
	s.pushStandalone(in.Trivia, true)
	s.lineBreak()
	s.push(formatStep(body.Element))
	s.push(dedentStep)
	return s
}

// pushItems writes each item on its own padded line, followed by its
// comments.
func (s *steps) pushItems(items []Child) {
	for i, it := range items {
		s.lineBreak()
		s.push(itemStep(it))
		if it.HasInlineComment {
			s.push(spaceStep, commentStep(it.InlineComment))
		}
		s.pushStandalone(it.Trivia, i+1 < len(items))
	}
}

// pushStandalone writes comments on lines of their own. A blank-line run
// becomes a single empty line, and is dropped when nothing follows it.
func (s *steps) pushStandalone(trivia []Trivia, more bool) {
	for i, t := range trivia {
		switch t.Kind {
		case TriviaComment:
			s.lineBreak()
			s.push(commentStep(t.Text))
		case TriviaBlank:
			if more || i+1 < len(trivia) {
				s.push(newLineStep)
			}
		}
	}
}

// itemStep formats an item of an expanded block. An inherit written over
// several lines keeps its vertical layout.
func itemStep(it Child) Step {
	if keepsVertical(it) {
		return wideStep(it.Element)
	}
	return formatStep(it.Element)
}

func keepsVertical(it Child) bool {
	return syntax.IsNode(it.Element, syntax.NodeInherit) && strings.Contains(it.Element.Text(), "\n")
}

func allItemsInline(items []Child) bool {
	for _, it := range items {
		if keepsVertical(it) || !fitsInline(it.Element) {
			return false
		}
	}
	return true
}

// fitsInline reports whether el renders on a single line when formatted
// compactly. It follows the choices the rules make rather than the source
// layout: whitespace that a rule normalizes does not count.
func fitsInline(el syntax.Element) bool {
	switch e := el.(type) {
	case *syntax.Token:
		return !strings.Contains(e.Lit, "\n")
	case *syntax.Node:
		switch e.Kind {
		case syntax.NodeRoot, syntax.NodeLetIn:
			return false
		case syntax.NodeAttrSet, syntax.NodeList:
			return emptyBlockInline(e)
		case syntax.NodeInherit:
			children := Children(e)
			return !slices.ContainsFunc(children, Child.Commented) && allChildrenInline(children)
		case syntax.NodeAttrpathValue, syntax.NodeAttrpath, syntax.NodeSelect,
			syntax.NodeParen, syntax.NodeInheritFrom:
			children := Children(e)
			if !slices.ContainsFunc(children, Child.Commented) {
				return allChildrenInline(children)
			}
		}
		return passThroughInline(e)
	}
	return true
}

// emptyBlockInline reports whether a nested set or list renders inline.
// Only empty ones without comments do: "{ }", "[ ]", "rec { }".
func emptyBlockInline(n *syntax.Node) bool {
	children := Children(n)
	if len(children) > 0 && syntax.IsToken(children[0].Element, syntax.TokenRec) {
		if children[0].Commented() {
			return false
		}
		children = children[1:]
	}
	return len(children) == 2 && !children[0].Commented()
}

func allChildrenInline(children []Child) bool {
	for _, c := range children {
		if !fitsInline(c.Element) {
			return false
		}
	}
	return true
}

// passThroughInline mirrors passThrough: every line break in the node is
// kept.
func passThroughInline(n *syntax.Node) bool {
	for _, el := range n.Children {
		if !fitsInline(el) {
			return false
		}
	}
	return true
}
