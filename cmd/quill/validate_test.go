package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pagecraft/quill/pkg/cli"
)

// withConfigFile points the global config path at a temp file holding
// the given YAML and restores it afterwards.
func withConfigFile(t *testing.T, yaml string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })
}

func TestValidateConfig_Valid(t *testing.T) {
	// Defaults fill everything an empty file leaves out.
	withConfigFile(t, "")

	if err := validateConfig(validateCmd, nil); err != nil {
		t.Errorf("validateConfig() error = %v, want nil", err)
	}
}

func TestValidateConfig_InvalidBackend(t *testing.T) {
	withConfigFile(t, "quota:\n  backend: redis\n")

	err := validateConfig(validateCmd, nil)
	if err == nil {
		t.Fatal("validateConfig() error = nil, want validation failure")
	}

	var configErr *cli.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("error type = %T, want *cli.ConfigError", err)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	orig := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "does-not-exist.yaml")
	t.Cleanup(func() { cfgFile = orig })

	err := validateConfig(validateCmd, nil)
	if err == nil {
		t.Fatal("validateConfig() error = nil, want load failure")
	}

	var configErr *cli.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("error type = %T, want *cli.ConfigError", err)
	}
}

func TestValidateConfig_BadPatternFile(t *testing.T) {
	patternPath := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(patternPath, []byte("- name: broken\n  pattern: '['\n"), 0o600); err != nil {
		t.Fatalf("write patterns: %v", err)
	}

	withConfigFile(t, "redaction:\n  custom_patterns_path: "+patternPath+"\n")

	err := validateConfig(validateCmd, nil)
	if err == nil {
		t.Fatal("validateConfig() error = nil, want pattern load failure")
	}

	var configErr *cli.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("error type = %T, want *cli.ConfigError", err)
	}
	if configErr.Field != "redaction.custom_patterns_path" {
		t.Errorf("Field = %q, want %q", configErr.Field, "redaction.custom_patterns_path")
	}
}
