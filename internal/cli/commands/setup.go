// Package commands implements the nixfmt subcommands.
package commands

import (
	"log/slog"

	"github.com/leapstack-labs/nixfmt/internal/cli/config"
	"github.com/leapstack-labs/nixfmt/internal/cli/output"
	"github.com/leapstack-labs/nixfmt/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cmdCtx.Engine = engine.New(engine.Config{
		Options: cmdCtx.Cfg.FormatOptions(),
		Workers: cmdCtx.Cfg.Workers,
		Exclude: cmdCtx.Cfg.Exclude,
		Logger:  cmdCtx.Logger,
	})
	return cmdCtx
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that work on a single input.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded (commands run without the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
