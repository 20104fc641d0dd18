package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"pagecraft/quill/pkg/cli"
	"pagecraft/quill/pkg/config"
	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/ledger/retention"
)

var ledgerPruneFlags struct {
	days int
}

var ledgerPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove ledger records older than the retention window",
	Long: `Run one retention pass against the configured ledger store.

The running server prunes on its cron schedule; this command is for
running the same pass by hand, for example after lowering the retention
window. The retention window comes from the configuration and can be
overridden with --days.`,
	RunE: runLedgerPrune,
}

func init() {
	ledgerCmd.AddCommand(ledgerPruneCmd)

	ledgerPruneCmd.Flags().IntVar(&ledgerPruneFlags.days, "days", 0, "override retention window in days")
}

func runLedgerPrune(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if !cfg.Ledger.Enabled {
		return cli.NewCommandError("ledger prune", errors.New("ledger is disabled in configuration"))
	}
	if cfg.Ledger.Backend != "sqlite" {
		return cli.NewCommandError("ledger prune",
			fmt.Errorf("ledger backend %q keeps no records across runs; nothing to prune", cfg.Ledger.Backend))
	}

	days := cfg.Ledger.RetentionDays
	if ledgerPruneFlags.days > 0 {
		days = ledgerPruneFlags.days
	}
	if days <= 0 {
		return cli.NewCommandError("ledger prune",
			errors.New("retention window is not configured; set ledger.retention_days or pass --days"))
	}

	sqliteCfg := ledger.DefaultSQLiteConfig()
	sqliteCfg.Path = cfg.Ledger.SQLite.Path
	store, err := ledger.NewSQLiteStore(sqliteCfg)
	if err != nil {
		return cli.NewCommandError("ledger prune", fmt.Errorf("failed to open ledger store: %w", err))
	}
	defer store.Close()

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: days,
	})

	removed, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("ledger prune", err)
	}

	fmt.Printf("✓ Removed %d record(s) older than %d days\n", removed, days)
	return nil
}
