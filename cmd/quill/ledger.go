package main

import (
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage the request ledger",
	Long: `Manage the request accounting ledger.

The ledger stores one accounting row per request: caller, space, model,
outcome, latency, and token counts. Prompt and completion text are
never persisted.

Subcommands:
  prune - Remove records older than the retention window

Examples:
  # Run retention once, outside the cron schedule
  quill ledger prune

  # Override the configured retention window
  quill ledger prune --days 30`,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}
