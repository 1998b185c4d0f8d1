// Package cli provides the command-line interface for nixfmt.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/nixfmt/internal/cli/commands"
	"github.com/leapstack-labs/nixfmt/internal/cli/config"
	"github.com/leapstack-labs/nixfmt/internal/cli/output"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	formatOpts := &commands.FormatOptions{}

	rootCmd := &cobra.Command{
		Use:   "nixfmt [path...]",
		Short: "nixfmt - Formatter for Nix expressions",
		Long: `nixfmt rewrites Nix files into a single canonical layout.

Comments are kept where they were written, inherit lists are sorted when
no comment is attached to them, and formatting a file twice gives the same
result as formatting it once.

Running nixfmt with paths is the same as running "nixfmt format".`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, config.LoggerKey(), logger))
			logger.Debug("configuration loaded",
				"config_file", config.GetConfigFileUsed(),
				"project_root", cfg.ProjectRoot,
				"indent_width", cfg.IndentWidth,
				"use_tabs", cfg.UseTabs)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunFormat(cmd, args, formatOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s)\n", GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: nixfmt.yaml, nixfmt.yml or nixfmt.toml, searched upward)")
	rootCmd.PersistentFlags().Int("indent-width", config.DefaultIndentWidth, "Spaces per indentation level")
	rootCmd.PersistentFlags().Bool("use-tabs", false, "Indent with tabs instead of spaces")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Glob patterns of files and directories to skip")
	rootCmd.PersistentFlags().IntP("workers", "j", config.DefaultWorkers, "Files formatted in parallel (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, 0, len(output.Modes))
		for _, m := range output.Modes {
			modes = append(modes, string(m))
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	commands.AddFormatFlags(rootCmd, formatOpts)

	rootCmd.AddCommand(commands.NewFormatCommand())
	rootCmd.AddCommand(commands.NewTreeCommand())
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for nixfmt.

To load completions:

Bash:
  $ source <(nixfmt completion bash)

Zsh:
  $ nixfmt completion zsh > "${fpath[1]}/_nixfmt"

Fish:
  $ nixfmt completion fish > ~/.config/fish/completions/nixfmt.fish

PowerShell:
  PS> nixfmt completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
	return cmd
}
