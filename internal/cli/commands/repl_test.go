package commands

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/nixfmt/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*replSession, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return newReplSession(out, errOut, format.Options{}), out, errOut
}

func TestReplSession_FormatsOnEmptyLine(t *testing.T) {
	s, out, errOut := newTestSession()

	assert.False(t, s.feed("{ inherit c a b;"))
	assert.True(t, s.pending())
	assert.False(t, s.feed("  x = 1; }"))
	assert.Empty(t, out.String(), "nothing is printed before the empty line")

	assert.False(t, s.feed(""))
	assert.False(t, s.pending())
	assert.Equal(t, "{\n  inherit a b c;\n  x = 1;\n}\n\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestReplSession_EmptyLineWithoutInput(t *testing.T) {
	s, out, errOut := newTestSession()
	assert.False(t, s.feed("   "))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestReplSession_ParseError(t *testing.T) {
	s, out, errOut := newTestSession()
	s.feed("{ a = 1 }")
	s.feed("")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error:")
	assert.False(t, s.pending())
}

func TestReplSession_DotCommands(t *testing.T) {
	tests := []struct {
		name    string
		before  []string
		command string
		quit    bool
		wantOut string
		wantErr string
	}{
		{name: "quit", command: ".quit", quit: true},
		{name: "exit", command: ".EXIT", quit: true},
		{name: "help", command: ".help", wantOut: ".steps"},
		{name: "unknown", command: ".nope", wantErr: "Unknown command: .nope"},
		{name: "steps before input", command: ".steps", wantErr: "Nothing formatted yet"},
		{name: "tree before input", command: ".tree", wantErr: "Nothing formatted yet"},
		{
			name:    "steps",
			before:  []string{"[ 1 ]", ""},
			command: ".steps",
			wantOut: `Format("[")`,
		},
		{
			name:    "tree",
			before:  []string{"[ 1 ]", ""},
			command: ".tree",
			wantOut: `INTEGER "1"`,
		},
		{
			name:    "tree after parse error",
			before:  []string{"[ 1", ""},
			command: ".tree",
			wantErr: "Error:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, errOut := newTestSession()
			for _, line := range tt.before {
				require.False(t, s.feed(line))
			}
			out.Reset()
			errOut.Reset()

			assert.Equal(t, tt.quit, s.feed(tt.command))
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestReplSession_DotInsideExpression(t *testing.T) {
	s, out, _ := newTestSession()
	s.feed("[")
	assert.False(t, s.feed("  .quit"), "lines inside an expression are input")
	assert.True(t, s.pending())
	s.reset()
	assert.False(t, s.pending())
	assert.Empty(t, out.String())
}

func TestNewReplCommand(t *testing.T) {
	cmd := NewReplCommand()
	assert.Equal(t, "repl", cmd.Use)
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
	assert.NotNil(t, newDotCompleter())
}
