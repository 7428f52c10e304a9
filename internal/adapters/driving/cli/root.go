// Package cli provides the command-line interface for askdocs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Question answering over your PDF documents",
	Long: `askdocs ingests PDF documents into persistent per-corpus vector
indexes and answers natural-language questions grounded in their content.

Start the HTTP API with 'askdocs serve', then upload PDFs to /ingest and
ask questions through /ask.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.askdocs/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
