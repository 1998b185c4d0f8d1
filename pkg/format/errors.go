package format

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/nixfmt/pkg/syntax"
)

// ErrNotIdempotent is returned by CheckIdempotent when a second pass
// changes the output of the first.
var ErrNotIdempotent = errors.New("formatting is not idempotent")

// ContractError reports a node whose children do not have the shape the
// parser guarantees for its kind. It points at a parser or rule bug, not
// at bad user input.
type ContractError struct {
	Kind   syntax.NodeKind
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("grammar contract violated by %s node: %s", e.Kind, e.Reason)
}

// RenderError reports an inconsistent printer state, such as a Dedent
// without a matching Indent.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "printer state fault: " + e.Reason
}

func contractf(n *syntax.Node, format string, args ...any) {
	panic(&ContractError{Kind: n.Kind, Reason: fmt.Sprintf(format, args...)})
}

// recoverFault turns a fault raised inside the printer into err. Any other
// panic is re-raised.
func recoverFault(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch fault := r.(type) {
	case *ContractError:
		*err = fault
	case *RenderError:
		*err = fault
	default:
		panic(r)
	}
}
