package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"pagecraft/quill/pkg/cli"
	"pagecraft/quill/pkg/config"
	"pagecraft/quill/pkg/security/redact"
)

var redactFlags struct {
	patternsFile string
	scan         bool
}

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Filter text through the sensitive content validator",
	Long: `Run text through the same validator the request path uses.

Reads the named file, or stdin when no file is given, and writes the
filtered text to stdout with every sensitive match replaced by its
class placeholder. With --scan, reports per-class match counts instead
of rewriting; matched text is never printed.

Custom patterns come from the configuration file, or from --patterns.

Examples:
  # Filter a file
  quill redact notes.txt

  # Filter stdin
  cat notes.txt | quill redact

  # Report what would be redacted
  quill redact --scan notes.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRedact,
}

func init() {
	rootCmd.AddCommand(redactCmd)

	redactCmd.Flags().StringVar(&redactFlags.patternsFile, "patterns", "", "custom pattern file (overrides config)")
	redactCmd.Flags().BoolVar(&redactFlags.scan, "scan", false, "report per-class counts instead of rewriting")
}

func runRedact(cmd *cobra.Command, args []string) error {
	// Flag wins over config. A missing config file is fine here: the
	// command works standalone with the built-in patterns.
	patternsPath := redactFlags.patternsFile
	if patternsPath == "" {
		if cfg, err := config.LoadConfig(cfgFile); err == nil {
			patternsPath = cfg.Redaction.CustomPatternsPath
		}
	}

	validator := redact.NewValidator()
	if patternsPath != "" {
		if err := validator.LoadCustomFile(patternsPath); err != nil {
			return cli.NewConfigError("redaction.custom_patterns_path",
				fmt.Sprintf("failed to load custom patterns: %v", err))
		}
	}

	var input []byte
	var err error
	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return cli.NewCommandError("redact", err)
	}

	text := string(input)

	if redactFlags.scan {
		findings := validator.Scan(text)
		if len(findings) == 0 {
			fmt.Println("No sensitive content found.")
			return nil
		}
		for _, finding := range findings {
			fmt.Printf("%s: %d\n", finding.Class, finding.Count)
		}
		return nil
	}

	fmt.Print(validator.Filter(text))
	return nil
}
