// Package main is the entry point for the mintyml CLI.
package main

import (
	"errors"
	"os"

	"github.com/youngspe/mintyml/internal/cli"
	"github.com/youngspe/mintyml/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, cli.ErrConversionFailed):
			return 1
		default:
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
			return 2
		}
	}

	return 0
}
