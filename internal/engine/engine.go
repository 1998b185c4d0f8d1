// Package engine formats Nix files on disk.
// It discovers files, formats them concurrently, and reports or writes the
// results.
package engine

import (
	"errors"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"github.com/leapstack-labs/nixfmt/pkg/format"
)

// ErrNotFormatted is returned in check mode when at least one file would
// change.
var ErrNotFormatted = errors.New("some files are not formatted")

// ErrFormatFailed is returned when at least one file could not be read,
// parsed or written.
var ErrFormatFailed = errors.New("some files could not be formatted")

// Engine formats sets of files with one set of options.
type Engine struct {
	options format.Options
	workers int
	exclude []string
	runID   string

	// Structured logger
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Options are passed to the formatter for every file
	Options format.Options
	// Workers bounds the number of files formatted at once (0 = GOMAXPROCS)
	Workers int
	// Exclude lists glob patterns matched against base names and relative paths
	Exclude []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	logger.Debug("initializing engine",
		"workers", workers,
		"indent_width", cfg.Options.IndentWidth,
		"use_tabs", cfg.Options.UseTabs,
		"exclude", cfg.Exclude)

	return &Engine{
		options: cfg.Options,
		workers: workers,
		exclude: cfg.Exclude,
		runID:   runID,
		logger:  logger,
	}
}

// RunID identifies this engine in log records.
func (e *Engine) RunID() string {
	return e.runID
}

// Options returns the formatter options used by the engine.
func (e *Engine) Options() format.Options {
	return e.options
}
