package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "0.0.0.0:8080"
  read_timeout: "60s"

provider:
  base_url: "https://api.openai.com/v1"
  api_key_name: "provider.api_key"
  max_tokens: 1024
  request_timeout: "30s"

models:
  allowed: ["gpt-4o-mini", "gpt-4o"]
  default: "gpt-4o"

cache:
  enabled: true
  ttl: "1h"
  capacity: 1000

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:8080", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout %v, got %v", 60*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Provider.MaxTokens != 1024 {
		t.Errorf("expected max tokens %d, got %d", 1024, cfg.Provider.MaxTokens)
	}
	if cfg.Provider.RequestTimeout != 30*time.Second {
		t.Errorf("expected request timeout %v, got %v", 30*time.Second, cfg.Provider.RequestTimeout)
	}
	if cfg.Models.Default != "gpt-4o" {
		t.Errorf("expected default model %q, got %q", "gpt-4o", cfg.Models.Default)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected cache ttl %v, got %v", time.Hour, cfg.Cache.TTL)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_DefaultsFillGaps(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:9000"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Provider.BaseURL != DefaultProviderBaseURL {
		t.Errorf("expected default base URL %q, got %q", DefaultProviderBaseURL, cfg.Provider.BaseURL)
	}
	if cfg.Provider.ConnectTimeout != DefaultProviderConnectTimeout {
		t.Errorf("expected default connect timeout %v, got %v", DefaultProviderConnectTimeout, cfg.Provider.ConnectTimeout)
	}
	if cfg.Cache.Capacity != DefaultCacheCapacity {
		t.Errorf("expected default cache capacity %d, got %d", DefaultCacheCapacity, cfg.Cache.Capacity)
	}
	if len(cfg.Models.Allowed) == 0 {
		t.Error("expected default model allowlist")
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled when section absent")
	}
	if !cfg.Ledger.Enabled {
		t.Error("expected ledger enabled when section absent")
	}
	if !cfg.Telemetry.Logging.RedactContent {
		t.Error("expected log redaction enabled when section absent")
	}
}

func TestLoadConfig_ExplicitDisableWins(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
cache:
  enabled: false

telemetry:
  logging:
    redact_content: false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Cache.Enabled {
		t.Error("expected explicit cache.enabled=false to survive defaulting")
	}
	if cfg.Telemetry.Logging.RedactContent {
		t.Error("expected explicit redact_content=false to survive defaulting")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "no such file or directory") {
		t.Errorf("expected file not found error, got: %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	malformedContent := `
server:
  listen_address: "0.0.0.0:8080"
  invalid yaml here: [
`

	if err := os.WriteFile(configPath, []byte(malformedContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Default model not on the allowlist
	invalidContent := `
models:
  allowed: ["gpt-4o-mini"]
  default: "gpt-9"
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError in error chain, got %T: %v", err, err)
	}
}

func TestLoadConfigWithEnvOverrides_BasicOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:8080"

provider:
  base_url: "https://api.openai.com/v1"

telemetry:
  logging:
    level: "info"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("QUILL_SERVER_LISTEN_ADDRESS", "0.0.0.0:9090")
	os.Setenv("QUILL_PROVIDER_BASE_URL", "https://llm.internal.example.com/v1")
	os.Setenv("QUILL_TELEMETRY_LOGGING_LEVEL", "debug")
	defer func() {
		os.Unsetenv("QUILL_SERVER_LISTEN_ADDRESS")
		os.Unsetenv("QUILL_PROVIDER_BASE_URL")
		os.Unsetenv("QUILL_TELEMETRY_LOGGING_LEVEL")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q from env, got %q", "0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Provider.BaseURL != "https://llm.internal.example.com/v1" {
		t.Errorf("expected base URL %q from env, got %q", "https://llm.internal.example.com/v1", cfg.Provider.BaseURL)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q from env, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_DurationParsing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:8080"
  read_timeout: "30s"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("QUILL_SERVER_READ_TIMEOUT", "120s")
	os.Setenv("QUILL_PROVIDER_REQUEST_TIMEOUT", "45s")
	os.Setenv("QUILL_CACHE_TTL", "30m")
	defer func() {
		os.Unsetenv("QUILL_SERVER_READ_TIMEOUT")
		os.Unsetenv("QUILL_PROVIDER_REQUEST_TIMEOUT")
		os.Unsetenv("QUILL_CACHE_TTL")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ReadTimeout != 120*time.Second {
		t.Errorf("expected read timeout %v, got %v", 120*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Provider.RequestTimeout != 45*time.Second {
		t.Errorf("expected request timeout %v, got %v", 45*time.Second, cfg.Provider.RequestTimeout)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected cache ttl %v, got %v", 30*time.Minute, cfg.Cache.TTL)
	}
}

func TestLoadConfigWithEnvOverrides_IntegerParsing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:8080"

quota:
  enabled: true
  daily_limit: 200

ledger:
  retention_days: 90
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("QUILL_PROVIDER_MAX_TOKENS", "2048")
	os.Setenv("QUILL_QUOTA_DAILY_LIMIT", "500")
	os.Setenv("QUILL_LEDGER_RETENTION_DAYS", "30")
	defer func() {
		os.Unsetenv("QUILL_PROVIDER_MAX_TOKENS")
		os.Unsetenv("QUILL_QUOTA_DAILY_LIMIT")
		os.Unsetenv("QUILL_LEDGER_RETENTION_DAYS")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Provider.MaxTokens != 2048 {
		t.Errorf("expected max tokens %d, got %d", 2048, cfg.Provider.MaxTokens)
	}
	if cfg.Quota.DailyLimit != 500 {
		t.Errorf("expected daily limit %d, got %d", 500, cfg.Quota.DailyLimit)
	}
	if cfg.Ledger.RetentionDays != 30 {
		t.Errorf("expected retention days %d, got %d", 30, cfg.Ledger.RetentionDays)
	}
}

func TestLoadConfigWithEnvOverrides_BooleanParsing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:8080"

cache:
  enabled: false

quota:
  enabled: false

telemetry:
  metrics:
    enabled: false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	os.Setenv("QUILL_CACHE_ENABLED", "true")
	os.Setenv("QUILL_QUOTA_ENABLED", "true")
	os.Setenv("QUILL_TELEMETRY_METRICS_ENABLED", "true")
	defer func() {
		os.Unsetenv("QUILL_CACHE_ENABLED")
		os.Unsetenv("QUILL_QUOTA_ENABLED")
		os.Unsetenv("QUILL_TELEMETRY_METRICS_ENABLED")
	}()

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled to be true from env")
	}
	if !cfg.Quota.Enabled {
		t.Error("expected quota enabled to be true from env")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled to be true from env")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:8080"

telemetry:
  logging:
    level: "info"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Unparseable numbers are ignored; invalid enum values fail validation
	os.Setenv("QUILL_PROVIDER_MAX_TOKENS", "not-a-number")
	os.Setenv("QUILL_TELEMETRY_LOGGING_LEVEL", "invalid-level")
	defer func() {
		os.Unsetenv("QUILL_PROVIDER_MAX_TOKENS")
		os.Unsetenv("QUILL_TELEMETRY_LOGGING_LEVEL")
	}()

	_, err := LoadConfigWithEnvOverrides(configPath)
	if err == nil {
		t.Error("expected validation error for invalid env values")
	}
}
