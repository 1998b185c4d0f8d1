// Package main provides the nixfmt command.
package main

import (
	"os"

	"github.com/leapstack-labs/nixfmt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
