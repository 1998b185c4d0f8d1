package format

import (
	"fmt"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// Tree formats a parsed file. It either returns the complete output or an
// error; a *ContractError or *RenderError means a bug in the parser or in
// a rule, never bad input.
func Tree(root *syntax.Node, opts Options) (out string, err error) {
	defer recoverFault(&err)

	p := newPrinter(opts)
	p.print(root)
	return p.String(), nil
}

// Source parses and formats src.
func Source(src string, opts Options) (string, error) {
	root, err := syntax.Parse(src)
	if err != nil {
		return "", err
	}
	return Tree(root, opts)
}

// Steps returns the instructions the rule for n produces, without
// executing them. Nested nodes appear as Format or FormatWide steps.
func Steps(n *syntax.Node, vertical bool, opts Options) (out []Step, err error) {
	defer recoverFault(&err)
	return dispatch(BuildContext{Vertical: vertical, Options: opts.withDefaults()}, n), nil
}

// CheckIdempotent formats src twice and reports ErrNotIdempotent when the
// second pass changes the output of the first.
func CheckIdempotent(src string, opts Options) error {
	first, err := Source(src, opts)
	if err != nil {
		return err
	}
	second, err := Source(first, opts)
	if err != nil {
		return fmt.Errorf("formatted output does not parse: %w", err)
	}
	if first != second {
		return fmt.Errorf("%w: second pass changed %d bytes of output", ErrNotIdempotent, diffSize(first, second))
	}
	return nil
}

// diffSize returns the length of the differing middle of a and b.
func diffSize(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	j := 0
	for j < len(a)-i && j < len(b)-i && a[len(a)-1-j] == b[len(b)-1-j] {
		j++
	}
	return max(len(a), len(b)) - i - j
}
