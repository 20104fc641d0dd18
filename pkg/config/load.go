package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	seedEnabledDefaults(&cfg)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention QUILL_SECTION_FIELD (e.g., QUILL_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format QUILL_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("QUILL_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("QUILL_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("QUILL_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("QUILL_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("QUILL_SERVER_REQUIRE_TOKEN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.RequireToken = b
		}
	}

	// Provider overrides
	if val := os.Getenv("QUILL_PROVIDER_NAME"); val != "" {
		cfg.Provider.Name = val
	}
	if val := os.Getenv("QUILL_PROVIDER_BASE_URL"); val != "" {
		cfg.Provider.BaseURL = val
	}
	if val := os.Getenv("QUILL_PROVIDER_API_KEY_NAME"); val != "" {
		cfg.Provider.APIKeyName = val
	}
	if val := os.Getenv("QUILL_PROVIDER_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Provider.MaxTokens = i
		}
	}
	if val := os.Getenv("QUILL_PROVIDER_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Provider.Temperature = f
		}
	}
	if val := os.Getenv("QUILL_PROVIDER_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Provider.ConnectTimeout = d
		}
	}
	if val := os.Getenv("QUILL_PROVIDER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Provider.RequestTimeout = d
		}
	}

	// Model overrides
	if val := os.Getenv("QUILL_MODELS_DEFAULT"); val != "" {
		cfg.Models.Default = val
	}

	// Redaction overrides
	if val := os.Getenv("QUILL_REDACTION_CUSTOM_PATTERNS_PATH"); val != "" {
		cfg.Redaction.CustomPatternsPath = val
	}
	if val := os.Getenv("QUILL_REDACTION_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Redaction.Watch = b
		}
	}

	// Cache overrides
	if val := os.Getenv("QUILL_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if val := os.Getenv("QUILL_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("QUILL_CACHE_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.Capacity = i
		}
	}

	// Quota overrides
	if val := os.Getenv("QUILL_QUOTA_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Quota.Enabled = b
		}
	}
	if val := os.Getenv("QUILL_QUOTA_DAILY_LIMIT"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Quota.DailyLimit = i
		}
	}
	if val := os.Getenv("QUILL_QUOTA_BACKEND"); val != "" {
		cfg.Quota.Backend = val
	}
	if val := os.Getenv("QUILL_QUOTA_SQLITE_PATH"); val != "" {
		cfg.Quota.SQLite.Path = val
	}

	// Ledger overrides
	if val := os.Getenv("QUILL_LEDGER_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Ledger.Enabled = b
		}
	}
	if val := os.Getenv("QUILL_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("QUILL_LEDGER_SQLITE_PATH"); val != "" {
		cfg.Ledger.SQLite.Path = val
	}
	if val := os.Getenv("QUILL_LEDGER_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Ledger.RetentionDays = i
		}
	}
	if val := os.Getenv("QUILL_LEDGER_PRUNE_SCHEDULE"); val != "" {
		cfg.Ledger.PruneSchedule = val
	}

	// Secrets overrides
	if val := os.Getenv("QUILL_SECRETS_ENV_PREFIX"); val != "" {
		cfg.Secrets.EnvPrefix = val
	}
	if val := os.Getenv("QUILL_SECRETS_FILE_PATH"); val != "" {
		cfg.Secrets.FilePath = val
	}

	// Auth overrides
	if val := os.Getenv("QUILL_AUTH_MODE"); val != "" {
		cfg.Auth.Mode = val
	}

	// Telemetry overrides
	if val := os.Getenv("QUILL_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("QUILL_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("QUILL_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("QUILL_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("QUILL_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("QUILL_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("QUILL_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
