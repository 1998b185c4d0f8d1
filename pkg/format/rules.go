package format

import "github.com/leapstack-labs/nixfmt/pkg/syntax"

// ruleFunc builds the steps for one node. Rules are pure: the same context
// and node always yield the same steps, and rules never touch the printer.
type ruleFunc func(ctx BuildContext, n *syntax.Node) []Step

// rules maps every node kind to its rule. Kinds without a layout of their
// own use passThrough.
var rules = [...]ruleFunc{
	syntax.NodeRoot:          ruleRoot,
	syntax.NodeAttrSet:       ruleAttrSet,
	syntax.NodeLetIn:         ruleLetIn,
	syntax.NodeInherit:       ruleInherit,
	syntax.NodeInheritFrom:   ruleParen,
	syntax.NodeAttrpathValue: ruleAttrpathValue,
	syntax.NodeAttrpath:      ruleJoined,
	syntax.NodeList:          ruleList,
	syntax.NodeParen:         ruleParen,
	syntax.NodeApply:         passThrough,
	syntax.NodeSelect:        ruleJoined,
	syntax.NodeHasAttr:       passThrough,
	syntax.NodeLambda:        passThrough,
	syntax.NodePattern:       passThrough,
	syntax.NodePatEntry:      passThrough,
	syntax.NodePatBind:       passThrough,
	syntax.NodeIfElse:        passThrough,
	syntax.NodeWith:          passThrough,
	syntax.NodeAssert:        passThrough,
	syntax.NodeBinOp:         passThrough,
	syntax.NodeUnaryOp:       passThrough,
}

// Fails to compile when a node kind is added without a rule.
var _ = [1]struct{}{}[len(rules)-int(syntax.NodeKindCount)]

func dispatch(ctx BuildContext, n *syntax.Node) []Step {
	if n.Kind < 0 || n.Kind >= syntax.NodeKindCount || rules[n.Kind] == nil {
		contractf(n, "no rule for node kind %d", int(n.Kind))
	}
	return rules[n.Kind](ctx, n)
}

// passThrough keeps the node's own layout. Tokens and child nodes are
// emitted in order, whitespace becomes a single space or a line break (at
// most one empty line is kept), and lines after the first break get one
// extra level of indentation.
func passThrough(ctx BuildContext, n *syntax.Node) []Step {
	var s steps
	indented := false
	for _, el := range n.Children {
		tok, ok := el.(*syntax.Token)
		switch {
		case !ok:
			if ctx.Vertical {
				s.push(wideStep(el))
			} else {
				s.push(formatStep(el))
			}
		case tok.Kind == syntax.TokenWhitespace:
			nl := tok.Newlines()
			if nl == 0 {
				s.push(spaceStep)
				continue
			}
			if !indented {
				s.push(indentStep)
				indented = true
			}
			if nl > 1 {
				s.push(newLineStep)
			}
			s.lineBreak()
		case tok.Kind == syntax.TokenComment:
			s.push(commentStep(trimComment(tok.Lit)))
		default:
			s.push(formatStep(el))
		}
	}
	if indented {
		s.push(dedentStep)
	}
	return s
}

// ruleJoined writes attribute paths and selections without spaces:
// a.b.c, pkgs.lib or { }.
func ruleJoined(ctx BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	for _, c := range children {
		if c.Commented() {
			return passThrough(ctx, n)
		}
	}
	var s steps
	for _, c := range children {
		if n.Kind == syntax.NodeSelect && syntax.IsToken(c.Element, syntax.TokenOr) {
			s.push(spaceStep, formatStep(c.Element), spaceStep)
			continue
		}
		s.push(formatStep(c.Element))
	}
	return s
}

// ruleParen writes (expr), and the from-clause of inherit.
func ruleParen(ctx BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	if len(children) != 3 {
		contractf(n, "expected ( expr ), got %d children", len(children))
	}
	for _, c := range children {
		if c.Commented() {
			return passThrough(ctx, n)
		}
	}
	return []Step{
		formatStep(children[0].Element),
		formatStep(children[1].Element),
		formatStep(children[2].Element),
	}
}

// ruleAttrpathValue writes path = value;
func ruleAttrpathValue(ctx BuildContext, n *syntax.Node) []Step {
	children := Children(n)
	if len(children) != 4 {
		contractf(n, "expected path = value ;, got %d children", len(children))
	}
	for _, c := range children {
		if c.Commented() {
			return passThrough(ctx, n)
		}
	}
	return []Step{
		formatStep(children[0].Element),
		spaceStep,
		formatStep(children[1].Element),
		spaceStep,
		formatStep(children[2].Element),
		formatStep(children[3].Element),
	}
}
