package format

import (
	"slices"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// ruleInherit formats
//
//	inherit [(from)] name... ;
//
// The binding stays on one line unless the context is vertical or any part
// of it carries a comment or a blank line; then every part goes on its own
// line. Blank lines themselves are not reproduced, except the one after an
// inline comment. Names are sorted in natural order, but only when no name
// and no from-clause has a comment attached: sorting would move a comment
// to a different name.
func ruleInherit(ctx BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	if len(children) < 2 {
		contractf(n, "expected at least a keyword and a terminator, got %d children", len(children))
	}
	keyword, last := children[0], children[len(children)-1]
	if !syntax.IsToken(keyword.Element, syntax.TokenInherit) {
		contractf(n, "first child is not the inherit keyword")
	}
	if !syntax.IsToken(last.Element, syntax.TokenSemicolon) {
		contractf(n, "last child is not the terminator")
	}

	vertical := ctx.Vertical || slices.ContainsFunc(children, Child.Commented)

	var s steps
	s.push(formatStep(keyword.Element))
	if vertical {
		s.push(indentStep)
	}
	switch {
	case keyword.HasInlineComment:
		s.push(spaceStep, commentStep(keyword.InlineComment))
		s.lineBreak()
	case vertical:
		s.lineBreak()
	}
	for _, t := range keyword.Trivia {
		if t.Kind == TriviaComment {
			s.push(commentStep(t.Text))
			s.lineBreak()
		}
	}

	rest := children[1 : len(children)-1]
	var from *Child
	if len(rest) > 0 && syntax.IsNode(rest[0].Element, syntax.NodeInheritFrom) {
		from = &rest[0]
		rest = rest[1:]
	}
	for _, c := range rest {
		if syntax.IsNode(c.Element, syntax.NodeInheritFrom) {
			contractf(n, "from-clause must directly follow the keyword")
		}
	}

	names := slices.Clone(rest)
	sortable := !slices.ContainsFunc(names, func(c Child) bool { return c.HasComments })
	if from != nil && from.HasComments {
		sortable = false
	}
	if sortable {
		slices.SortStableFunc(names, func(a, b Child) int {
			return CompareNatural(a.Element.Text(), b.Element.Text())
		})
	}

	if from != nil {
		s.placeInheritChild(vertical, *from, true)
	}
	for _, c := range names {
		s.placeInheritChild(vertical, c, true)
	}
	s.placeInheritChild(vertical, last, false)

	if vertical {
		s.push(dedentStep)
	}
	return s
}

// placeInheritChild writes one part of an inherit binding. In vertical
// layout every part but the last ends with a padded line break so the next
// part starts on its own line.
func (s *steps) placeInheritChild(vertical bool, c Child, notLast bool) {
	if !vertical {
		if notLast {
			s.push(spaceStep)
		}
		s.push(formatStep(c.Element))
		return
	}

	s.push(wideStep(c.Element))

	first, hasTrivia := c.firstTrivia()
	switch {
	case c.HasInlineComment:
		s.push(spaceStep, commentStep(c.InlineComment), newLineStep)
		// A blank line comes next: leave it unpadded.
		if !hasTrivia || first.Kind == TriviaComment {
			s.push(padStep)
		}
	case (notLast && !hasTrivia) || (hasTrivia && first.Kind == TriviaComment):
		s.lineBreak()
	}

	for i, t := range c.Trivia {
		// A blank run writes nothing of its own, only the line break below.
		if t.Kind == TriviaComment {
			s.push(commentStep(t.Text))
			// The blank run that follows ends this line.
			if i+1 < len(c.Trivia) && c.Trivia[i+1].Kind == TriviaBlank {
				continue
			}
		}
		if notLast {
			s.lineBreak()
		}
	}
}
