package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/nixfmt/internal/cli/output"
	"github.com/leapstack-labs/nixfmt/internal/engine"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatOptions holds options for the format command.
type FormatOptions struct {
	Check  bool // Report files that would change, write nothing
	Diff   bool // Print unified diffs of changes
	Verify bool // Fail files whose output is not stable
	Watch  bool // Keep running and format files as they change
}

func (o *FormatOptions) runOptions() engine.RunOptions {
	mode := engine.ModeWrite
	if o.Check {
		mode = engine.ModeCheck
	}
	return engine.RunOptions{Mode: mode, Diff: o.Diff, Verify: o.Verify}
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}
	cmd := &cobra.Command{
		Use:   "format [path...]",
		Short: "Format Nix files",
		Long: `Format Nix files in place.

Directories are searched recursively for .nix files; hidden directories and
paths matching an exclude pattern are skipped. Use "-" to read from stdin
and write to stdout.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Format the current directory
  nixfmt format

  # Fail if anything is not formatted, showing what would change
  nixfmt format --check --diff .

  # Format stdin
  cat default.nix | nixfmt format -

  # Reformat files as they are saved
  nixfmt format --watch pkgs/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunFormat(cmd, args, opts)
		},
	}
	AddFormatFlags(cmd, opts)
	return cmd
}

// AddFormatFlags registers the format flags on cmd.
func AddFormatFlags(cmd *cobra.Command, opts *FormatOptions) {
	cmd.Flags().BoolVarP(&opts.Check, "check", "c", false, "Report unformatted files without writing them")
	cmd.Flags().BoolVarP(&opts.Diff, "diff", "d", false, "Show a unified diff of the changes")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "Check that formatting the output again changes nothing")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and format files when they change")
}

// RunFormat formats the given paths, or the current directory.
func RunFormat(cmd *cobra.Command, args []string, opts *FormatOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	eng := cmdCtx.Engine

	if len(args) == 1 && args[0] == "-" {
		if opts.Watch {
			return errors.New("--watch cannot be used with stdin")
		}
		return eng.FormatReader(cmd.InOrStdin(), cmd.OutOrStdout(), opts.runOptions())
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := eng.Discover(paths)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := eng.FormatFiles(ctx, files, opts.runOptions())
	if err != nil {
		return err
	}
	if err := renderReport(r, report, eng.RunID()); err != nil {
		return err
	}

	if !opts.Watch {
		return report.Err()
	}

	r.Muted("Watching for changes, press Ctrl+C to stop")
	return eng.Watch(ctx, paths, engine.WatchOptions{
		Run: opts.runOptions(),
		OnReport: func(rep *engine.Report) {
			if err := renderReport(r, rep, eng.RunID()); err != nil {
				cmdCtx.Logger.Warn("failed to render report", "error", err)
			}
		},
	})
}

func renderReport(r *output.Renderer, report *engine.Report, runID string) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(reportJSON(report, runID))
	case output.ModeMarkdown:
		reportMarkdown(r, report)
	default:
		reportText(r, report)
	}
	return nil
}

// reportText lists changed and failed files, then a one-line summary.
func reportText(r *output.Renderer, report *engine.Report) {
	styles := r.Styles()
	for _, res := range report.Results {
		switch res.Status {
		case engine.StatusFormatted:
			r.Println(styles.Success.Render("formatted ") + styles.Path.Render(res.Path))
		case engine.StatusChanged:
			r.Println(styles.Warning.Render("would reformat ") + styles.Path.Render(res.Path))
		case engine.StatusFailed:
			r.Error(fmt.Sprintf("%s: %v", res.Path, res.Err))
		}
		r.Diff(res.Diff)
	}

	switch {
	case report.Count(engine.StatusFailed) > 0:
		r.Error(report.Summary())
	case report.Count(engine.StatusChanged) > 0:
		r.Warning(report.Summary())
	default:
		r.Success(report.Summary())
	}
}

// reportMarkdown writes a table of all files that are not unchanged.
func reportMarkdown(r *output.Renderer, report *engine.Report) {
	title := cases.Title(language.English)

	r.Header(1, "Format Results")
	r.Println("")
	var rows []table.Row
	for _, res := range report.Results {
		if res.Status == engine.StatusUnchanged {
			continue
		}
		detail := ""
		if res.Err != nil {
			detail = res.Err.Error()
		}
		rows = append(rows, table.Row{res.Path, title.String(string(res.Status)), detail})
	}
	if len(rows) > 0 {
		r.Table(table.Row{"File", "Status", "Detail"}, rows)
		r.Println("")
	}
	for _, res := range report.Results {
		r.Diff(res.Diff)
	}
	r.Println(output.FormatKeyValue("Summary", report.Summary()))
}

func reportJSON(report *engine.Report, runID string) output.FormatOutput {
	out := output.FormatOutput{
		Files: make([]output.FileResult, 0, len(report.Results)),
		Summary: output.FormatSummary{
			Total:      len(report.Results),
			Formatted:  report.Count(engine.StatusFormatted),
			Changed:    report.Count(engine.StatusChanged),
			Unchanged:  report.Count(engine.StatusUnchanged),
			Failed:     report.Count(engine.StatusFailed),
			DurationMS: report.Duration.Milliseconds(),
			RunID:      runID,
		},
	}
	for _, res := range report.Results {
		fr := output.FileResult{
			Path:       res.Path,
			Status:     string(res.Status),
			Diff:       res.Diff,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		out.Files = append(out.Files, fr)
	}
	return out
}
