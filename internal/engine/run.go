package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/leapstack-labs/nixfmt/pkg/format"
	"golang.org/x/sync/errgroup"
)

// Mode selects what happens to files whose formatting changes.
type Mode int

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = iota
	// ModeCheck only reports changed files.
	ModeCheck
)

// RunOptions configures a formatting run.
type RunOptions struct {
	Mode Mode
	// Diff records a unified diff for every changed file.
	Diff bool
	// Verify formats every result a second time and fails the file when
	// the output changes again.
	Verify bool
}

// Status is the outcome for one file.
type Status string

// File statuses.
const (
	StatusUnchanged Status = "unchanged"
	StatusFormatted Status = "formatted"
	StatusChanged   Status = "would reformat"
	StatusFailed    Status = "failed"
)

// Result is the outcome of formatting one file.
type Result struct {
	Path     string
	Status   Status
	Diff     string
	Err      error
	Duration time.Duration
}

// Report collects the results of a run, in the order of the input paths.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the results that ended in an error.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Summary returns a human-readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d files: %d formatted, %d would reformat, %d unchanged, %d failed (%s)",
		len(r.Results),
		r.Count(StatusFormatted), r.Count(StatusChanged),
		r.Count(StatusUnchanged), r.Count(StatusFailed),
		r.Duration.Round(time.Millisecond))
}

// Err summarizes the report as an error: ErrFormatFailed when a file
// failed, ErrNotFormatted when a file would change in check mode.
func (r *Report) Err() error {
	if n := r.Count(StatusFailed); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFormatFailed, n, len(r.Results))
	}
	if n := r.Count(StatusChanged); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrNotFormatted, n, len(r.Results))
	}
	return nil
}

// FormatFiles formats the given files concurrently. Per-file problems are
// recorded in the report; the returned error is only set when the run was
// cancelled.
func (e *Engine) FormatFiles(ctx context.Context, files []string, opts RunOptions) (*Report, error) {
	start := time.Now()
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(e.workers, len(files))))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.formatFile(path, opts)
			return nil
		})
	}

	report := &Report{Results: results}
	if err := g.Wait(); err != nil {
		report.Duration = time.Since(start)
		return report, err
	}
	report.Duration = time.Since(start)

	e.logger.Info("format run complete",
		"files", len(files),
		"formatted", report.Count(StatusFormatted),
		"changed", report.Count(StatusChanged),
		"failed", report.Count(StatusFailed),
		"duration", report.Duration)
	return report, nil
}

func (e *Engine) formatFile(path string, opts RunOptions) Result {
	start := time.Now()
	res := e.processFile(path, opts)
	res.Duration = time.Since(start)
	return res
}

func (e *Engine) processFile(path string, opts RunOptions) Result {
	res := Result{Path: path}
	fail := func(err error) Result {
		e.logger.Warn("failed to format file", "path", path, "error", err)
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("failed to stat file: %w", err))
	}
	src, err := os.ReadFile(path) //nolint:gosec // paths come from the user
	if err != nil {
		return fail(fmt.Errorf("failed to read file: %w", err))
	}

	out, err := e.formatSource(string(src), opts.Verify)
	if err != nil {
		return fail(err)
	}

	if out == string(src) {
		res.Status = StatusUnchanged
		e.logger.Debug("file unchanged", "path", path)
		return res
	}

	if opts.Diff {
		diff, err := UnifiedDiff(path, string(src), out)
		if err != nil {
			return fail(err)
		}
		res.Diff = diff
	}

	if opts.Mode == ModeCheck {
		res.Status = StatusChanged
		e.logger.Debug("file would change", "path", path)
		return res
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fail(fmt.Errorf("failed to write file: %w", err))
	}
	res.Status = StatusFormatted
	e.logger.Debug("file formatted", "path", path)
	return res
}

func (e *Engine) formatSource(src string, verify bool) (string, error) {
	out, err := format.Source(src, e.options)
	if err != nil {
		return "", err
	}
	if verify {
		if err := format.CheckIdempotent(out, e.options); err != nil {
			return "", err
		}
	}
	return out, nil
}

// FormatReader formats everything read from r and writes the result to w.
// In check mode nothing is written and ErrNotFormatted reports a change.
func (e *Engine) FormatReader(r io.Reader, w io.Writer, opts RunOptions) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out, err := e.formatSource(string(src), opts.Verify)
	if err != nil {
		return err
	}

	switch {
	case opts.Diff:
		if out == string(src) {
			return nil
		}
		diff, err := UnifiedDiff("<stdin>", string(src), out)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, diff); err != nil {
			return err
		}
	case opts.Mode != ModeCheck:
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}

	if opts.Mode == ModeCheck && out != string(src) {
		return ErrNotFormatted
	}
	return nil
}
