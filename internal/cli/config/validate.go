package config

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/nixfmt/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.IndentWidth < 1 || c.IndentWidth > MaxIndentWidth {
		return fmt.Errorf("indent_width must be between 1 and %d, got %d", MaxIndentWidth, c.IndentWidth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if !output.Mode(c.OutputFormat).Valid() {
		return fmt.Errorf("unknown output format %q (expected one of %v)", c.OutputFormat, output.Modes)
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}
