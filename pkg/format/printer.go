// Package format turns a Nix syntax tree into canonical text.
//
// Formatting happens in two stages. Rules, one per node kind, look at a
// node and its comments and return a list of Steps; the Printer executes
// those steps. All layout decisions live in the rules: the Printer never
// measures or rewraps anything.
package format

import (
	"strings"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// Printer executes steps. A Printer is used for a single tree and is not
// safe for concurrent use; independent trees get independent printers.
type Printer struct {
	opts   Options
	unit   string
	output *strings.Builder
	depth  int
}

func newPrinter(opts Options) *Printer {
	opts = opts.withDefaults()
	return &Printer{
		opts:   opts,
		unit:   opts.indentUnit(),
		output: &strings.Builder{},
	}
}

// String returns the formatted output, ending in exactly one newline.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

// print formats el as the root of the output.
func (p *Printer) print(el syntax.Element) {
	p.format(el, false)
	if p.depth != 0 {
		panic(&RenderError{Reason: "unbalanced indentation at end of output"})
	}
}

func (p *Printer) exec(steps []Step) {
	for _, st := range steps {
		switch st.Op {
		case OpFormat:
			p.format(st.Element, false)
		case OpFormatWide:
			p.format(st.Element, true)
		case OpIndent:
			p.depth++
		case OpDedent:
			if p.depth == 0 {
				panic(&RenderError{Reason: "dedent below column zero"})
			}
			p.depth--
		case OpNewLine:
			p.output.WriteByte('\n')
		case OpPad:
			for i := 0; i < p.depth; i++ {
				p.output.WriteString(p.unit)
			}
		case OpSingleSpace:
			p.output.WriteByte(' ')
		case OpComment:
			p.output.WriteString(st.Text)
		default:
			panic(&RenderError{Reason: "unknown step " + st.Op.String()})
		}
	}
}

func (p *Printer) format(el syntax.Element, vertical bool) {
	switch e := el.(type) {
	case *syntax.Token:
		p.output.WriteString(e.Lit)
	case *syntax.Node:
		p.exec(dispatch(BuildContext{Vertical: vertical, Options: p.opts}, e))
	}
}
