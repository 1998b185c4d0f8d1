package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/nixfmt/pkg/format"
	"github.com/leapstack-labs/nixfmt/pkg/syntax"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "nixfmt> "
	replContinuePrompt = "   ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Format expressions interactively",
		Long: `Start an interactive session. Type a Nix expression over one or more
lines and finish it with an empty line to see it formatted.

Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     replHistoryFile(),
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nixfmt REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	session := newReplSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), cmdCtx.Cfg.FormatOptions())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if session.feed(line) {
			break
		}
		if session.pending() {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
	return nil
}

// replHistoryFile returns the history path in the user cache directory,
// or "" to disable history when there is none.
func replHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "nixfmt")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".steps"),
		readline.PcItem(".tree"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// replSession accumulates input lines and formats them once an empty line
// ends the expression.
type replSession struct {
	out, errOut io.Writer
	opts        format.Options
	buf         strings.Builder
	last        string
}

func newReplSession(out, errOut io.Writer, opts format.Options) *replSession {
	return &replSession{out: out, errOut: errOut, opts: opts}
}

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

func (s *replSession) reset() { s.buf.Reset() }

// feed handles one input line and reports whether the session should end.
func (s *replSession) feed(line string) bool {
	trimmed := strings.TrimSpace(line)

	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.dotCommand(trimmed)
	}

	if trimmed != "" {
		s.buf.WriteString(line)
		s.buf.WriteByte('\n')
		return false
	}
	if !s.pending() {
		return false
	}

	src := s.buf.String()
	s.buf.Reset()
	s.last = src

	out, err := format.Source(src, s.opts)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return false
	}
	_, _ = fmt.Fprint(s.out, out)
	_, _ = fmt.Fprintln(s.out)
	return false
}

func (s *replSession) dotCommand(line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".steps", ".tree":
		if s.last == "" {
			_, _ = fmt.Fprintln(s.errOut, "Nothing formatted yet")
			return false
		}
		root, err := syntax.Parse(s.last)
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		if command == ".tree" {
			writeTreeText(s.out, root, false, 0)
			return false
		}
		if err := writeSteps(s.out, root, s.opts); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .steps          Show layout steps for the last expression
  .tree           Show the syntax tree of the last expression
  .quit / .exit   Exit the REPL

Tips:
  - An empty line formats the expression typed so far
  - Ctrl+C discards the current expression
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}
