package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - mediation layer for PageCraft text generation",
	Long: `Quill sits between PageCraft and the generative text provider. Every
drafting request passes through it so sensitive content is screened,
models are allow-listed, usage is metered, and responses are cached.

It provides:
  - Sensitive content screening before any text leaves the boundary
  - Model allow-listing and per-space daily quotas
  - Fingerprint-keyed response caching with request coalescing
  - A persistent accounting ledger (no prompt or completion text)
  - Prometheus metrics and OpenTelemetry tracing`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
