package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"pagecraft/quill/pkg/cli"
	"pagecraft/quill/pkg/config"
	"pagecraft/quill/pkg/security/redact"
)

var validateFlags struct {
	format string
}

// validateSummary is the machine-readable result of a validate run.
type validateSummary struct {
	Valid         bool     `json:"valid"`
	ConfigFile    string   `json:"config_file"`
	ListenAddress string   `json:"listen_address"`
	Provider      string   `json:"provider"`
	Models        []string `json:"models"`
	DefaultModel  string   `json:"default_model"`
	CacheEnabled  bool     `json:"cache_enabled"`
	QuotaEnabled  bool     `json:"quota_enabled"`
	LedgerEnabled bool     `json:"ledger_enabled"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check a configuration file without starting the server.

All validation errors are reported together, each pointing at the
offending YAML path. If a custom pattern file is configured it is
parsed too, so a bad pattern file fails here instead of at startup.

Examples:
  # Validate the default config
  quill validate

  # Validate a specific file
  quill validate --config /etc/quill/config.yaml

  # Machine-readable result
  quill validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		var validationErr config.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintln(os.Stderr, "Configuration invalid:")
			for _, fieldErr := range validationErr.Errors {
				fmt.Fprintf(os.Stderr, "  ✗ %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return cli.NewConfigError("", fmt.Sprintf("%d validation error(s) in %s", len(validationErr.Errors), cfgFile))
		}
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// The pattern file is part of the effective configuration.
	if cfg.Redaction.CustomPatternsPath != "" {
		validator := redact.NewValidator()
		if err := validator.LoadCustomFile(cfg.Redaction.CustomPatternsPath); err != nil {
			return cli.NewConfigError("redaction.custom_patterns_path",
				fmt.Sprintf("failed to load custom patterns: %v", err))
		}
	}

	if validateFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, validateSummary{
			Valid:         true,
			ConfigFile:    cfgFile,
			ListenAddress: cfg.Server.ListenAddress,
			Provider:      cfg.Provider.Name,
			Models:        cfg.Models.Allowed,
			DefaultModel:  cfg.Models.Default,
			CacheEnabled:  cfg.Cache.Enabled,
			QuotaEnabled:  cfg.Quota.Enabled,
			LedgerEnabled: cfg.Ledger.Enabled,
		})
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Provider: %s (%s)\n", cfg.Provider.Name, cfg.Provider.BaseURL)
	fmt.Printf("  Models: %s (default %s)\n", strings.Join(cfg.Models.Allowed, ", "), cfg.Models.Default)
	fmt.Printf("  Cache: %s\n", enabledWord(cfg.Cache.Enabled))
	fmt.Printf("  Quota: %s\n", enabledWord(cfg.Quota.Enabled))
	fmt.Printf("  Ledger: %s\n", enabledWord(cfg.Ledger.Enabled))
	return nil
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
