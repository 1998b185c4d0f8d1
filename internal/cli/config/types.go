// Package config loads nixfmt settings from defaults, a project config
// file, NIXFMT_ environment variables and command-line flags.
package config

import (
	"github.com/leapstack-labs/nixfmt/pkg/format"
)

// Config holds all CLI configuration options.
type Config struct {
	IndentWidth  int      `koanf:"indent_width"`
	UseTabs      bool     `koanf:"use_tabs"`
	Exclude      []string `koanf:"exclude"`
	Workers      int      `koanf:"workers"`
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`

	// ProjectRoot is the directory of the config file, or the working
	// directory when there is none.
	ProjectRoot string `koanf:"-"`
}

// FormatOptions returns the formatter settings.
func (c *Config) FormatOptions() format.Options {
	return format.Options{
		IndentWidth: c.IndentWidth,
		UseTabs:     c.UseTabs,
	}
}

// Default configuration values.
const (
	DefaultIndentWidth = format.DefaultIndentWidth
	DefaultWorkers     = 0      // GOMAXPROCS
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	MaxIndentWidth     = 16
)

// FileNames lists the config file names searched for, in order.
var FileNames = []string{"nixfmt.yaml", "nixfmt.yml", "nixfmt.toml"}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		IndentWidth:  DefaultIndentWidth,
		Workers:      DefaultWorkers,
		OutputFormat: DefaultOutput,
	}
}
