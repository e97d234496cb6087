// Package cli provides the Cobra command structure for the mintyml CLI.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/youngspe/mintyml/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mintyml command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var verbose bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mintyml",
		Short: "Compile MinTyML source to HTML or XHTML",
		Long: `mintyml compiles the MinTyML markup language to HTML or XHTML.

MinTyML is a terse surface syntax for writing markup: selector-style
elements, line/block forms inferred from context, and inline formatting
shorthands, all compiled down to ordinary HTML.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to .mintyml.yaml config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize diagnostic output: auto, always, never")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
