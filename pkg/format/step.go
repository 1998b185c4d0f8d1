package format

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// Op is the operation of a Step.
type Op uint8

// Step operations.
const (
	// OpFormat renders an element compactly. Tokens are written as is,
	// nodes are dispatched to their rule with Vertical unset.
	OpFormat Op = iota
	// OpFormatWide renders an element with Vertical forced.
	OpFormatWide
	OpIndent
	OpDedent
	OpNewLine
	// OpPad writes the current indentation. Only meaningful right after
	// OpNewLine.
	OpPad
	OpSingleSpace
	// OpComment writes Text verbatim.
	OpComment
)

var opNames = [...]string{
	OpFormat:      "Format",
	OpFormatWide:  "FormatWide",
	OpIndent:      "Indent",
	OpDedent:      "Dedent",
	OpNewLine:     "NewLine",
	OpPad:         "Pad",
	OpSingleSpace: "SingleSpace",
	OpComment:     "Comment",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Step is one instruction of the formatter's intermediate representation.
// Rules decide layout by choosing steps; the Printer only executes them.
type Step struct {
	Op      Op
	Element syntax.Element // OpFormat, OpFormatWide
	Text    string         // OpComment
}

func (s Step) String() string {
	switch s.Op {
	case OpFormat, OpFormatWide:
		return fmt.Sprintf("%s(%q)", s.Op, s.Element.Text())
	case OpComment:
		return fmt.Sprintf("%s(%q)", s.Op, s.Text)
	default:
		return s.Op.String()
	}
}

var (
	indentStep  = Step{Op: OpIndent}
	dedentStep  = Step{Op: OpDedent}
	newLineStep = Step{Op: OpNewLine}
	padStep     = Step{Op: OpPad}
	spaceStep   = Step{Op: OpSingleSpace}
)

func formatStep(e syntax.Element) Step { return Step{Op: OpFormat, Element: e} }

func wideStep(e syntax.Element) Step { return Step{Op: OpFormatWide, Element: e} }

func commentStep(text string) Step { return Step{Op: OpComment, Text: text} }

// steps accumulates the output of a rule.
type steps []Step

func (s *steps) push(st ...Step) {
	*s = append(*s, st...)
}

// lineBreak ends the current line and pads the next one.
func (s *steps) lineBreak() {
	s.push(newLineStep, padStep)
}
