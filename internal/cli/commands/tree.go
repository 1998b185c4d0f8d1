package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/nixfmt/pkg/format"
	"github.com/leapstack-labs/nixfmt/pkg/syntax"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// TreeOptions holds options for the tree command.
type TreeOptions struct {
	Format string // text or yaml
	Trivia bool   // Include whitespace and comment tokens
	Steps  bool   // Print layout steps instead of the tree
}

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	opts := &TreeOptions{}
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the syntax tree of a Nix file",
		Long: `Print the concrete syntax tree the formatter works on.

With --steps, print the layout instructions chosen for the top-level
expression instead. Use "-" to read from stdin.`,
		Example: `  # Show the tree without trivia
  nixfmt tree default.nix

  # Dump everything as YAML
  nixfmt tree --trivia --format yaml default.nix

  # Show how the top-level expression is laid out
  nixfmt tree --steps default.nix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Tree format (text|yaml)")
	cmd.Flags().BoolVar(&opts.Trivia, "trivia", false, "Include whitespace and comments")
	cmd.Flags().BoolVar(&opts.Steps, "steps", false, "Print layout steps instead of the tree")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runTree(cmd *cobra.Command, path string, opts *TreeOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	src, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	name := path
	if path == "-" {
		name = "<stdin>"
	}
	root, err := syntax.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	w := cmd.OutOrStdout()
	if opts.Steps {
		return writeSteps(w, root, cmdCtx.Cfg.FormatOptions())
	}

	switch opts.Format {
	case "text":
		writeTreeText(w, root, opts.Trivia, 0)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(buildTreeNode(root, opts.Trivia)); err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown tree format %q (expected text or yaml)", opts.Format)
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

// treeNode is the YAML shape of a syntax element.
type treeNode struct {
	Kind     string      `yaml:"kind"`
	Text     string      `yaml:"text,omitempty"`
	Line     int         `yaml:"line,omitempty"`
	Children []*treeNode `yaml:"children,omitempty"`
}

func buildTreeNode(e syntax.Element, trivia bool) *treeNode {
	switch e := e.(type) {
	case *syntax.Token:
		return &treeNode{Kind: e.Kind.String(), Text: e.Lit, Line: e.Pos.Line}
	case *syntax.Node:
		tn := &treeNode{Kind: e.Kind.String()}
		for _, c := range e.Children {
			if !trivia && syntax.IsTrivia(c) {
				continue
			}
			tn.Children = append(tn.Children, buildTreeNode(c, trivia))
		}
		return tn
	}
	return nil
}

func writeTreeText(w io.Writer, e syntax.Element, trivia bool, depth int) {
	pad := strings.Repeat("  ", depth)
	switch e := e.(type) {
	case *syntax.Token:
		_, _ = fmt.Fprintf(w, "%s%s %q\n", pad, e.Kind, e.Lit)
	case *syntax.Node:
		_, _ = fmt.Fprintf(w, "%s%s\n", pad, e.Kind)
		for _, c := range e.Children {
			if !trivia && syntax.IsTrivia(c) {
				continue
			}
			writeTreeText(w, c, trivia, depth+1)
		}
	}
}

func writeSteps(w io.Writer, root *syntax.Node, opts format.Options) error {
	target := root
	if nodes := root.Nodes(); len(nodes) == 1 {
		target = nodes[0]
	}
	steps, err := format.Steps(target, false, opts)
	if err != nil {
		return err
	}
	for _, st := range steps {
		_, _ = fmt.Fprintln(w, st.String())
	}
	return nil
}
