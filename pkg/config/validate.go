package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific
// configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides
// access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail. All validation errors
// are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProvider(&cfg.Provider)...)
	errs = append(errs, validateModels(&cfg.Models)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateQuota(&cfg.Quota)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	return errs
}

// validateProvider validates provider configuration.
func validateProvider(cfg *ProviderConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "provider.base_url",
			Message: "base URL is required",
		})
	} else if parsed, err := url.Parse(cfg.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, FieldError{
			Field:   "provider.base_url",
			Message: fmt.Sprintf("invalid URL: %q", cfg.BaseURL),
		})
	}
	if cfg.APIKeyName == "" {
		errs = append(errs, FieldError{
			Field:   "provider.api_key_name",
			Message: "api key name is required",
		})
	}
	if cfg.MaxTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.max_tokens",
			Message: "max tokens must be positive",
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "provider.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}
	if cfg.InputTokenBudget < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.input_token_budget",
			Message: "input token budget must not be negative",
		})
	}
	if cfg.ConnectTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.connect_timeout",
			Message: "connect timeout must be positive",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.request_timeout",
			Message: "request timeout must be positive",
		})
	}

	return errs
}

// validateModels validates the model allowlist.
func validateModels(cfg *ModelsConfig) []FieldError {
	var errs []FieldError

	if len(cfg.Allowed) == 0 {
		errs = append(errs, FieldError{
			Field:   "models.allowed",
			Message: "at least one model must be allowed",
		})
	}

	for i, model := range cfg.Allowed {
		if model == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("models.allowed[%d]", i),
				Message: "model identifier must not be empty",
			})
		}
	}

	if cfg.Default != "" {
		found := false
		for _, model := range cfg.Allowed {
			if model == cfg.Default {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{
				Field:   "models.default",
				Message: fmt.Sprintf("default model %q is not in the allowed list", cfg.Default),
			})
		}
	}

	return errs
}

// validateCache validates cache configuration.
func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "ttl must be positive",
		})
	}
	if cfg.Capacity < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.capacity",
			Message: "capacity must be positive",
		})
	}
	if cfg.Shards < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.shards",
			Message: "shards must be positive",
		})
	}

	return errs
}

// validateQuota validates quota configuration.
func validateQuota(cfg *QuotaConfig) []FieldError {
	var errs []FieldError

	if cfg.DailyLimit < 0 {
		errs = append(errs, FieldError{
			Field:   "quota.daily_limit",
			Message: "daily limit must be positive",
		})
	}
	switch cfg.Backend {
	case "", "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "quota.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "quota.sqlite.path",
			Message: "path is required for the sqlite backend",
		})
	}
	for space, limit := range cfg.Overrides {
		if limit < 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("quota.overrides.%s", space),
				Message: "limit must be positive",
			})
		}
	}

	return errs
}

// validateLedger validates ledger configuration.
func validateLedger(cfg *LedgerConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "", "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "ledger.sqlite.path",
			Message: "path is required for the sqlite backend",
		})
	}
	if cfg.BufferSize < 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.buffer_size",
			Message: "buffer size must be positive",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.retention_days",
			Message: "retention days must be positive",
		})
	}

	return errs
}

// validateAuth validates authorization configuration.
func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case "", "allow_all", "space_list":
	default:
		errs = append(errs, FieldError{
			Field:   "auth.mode",
			Message: fmt.Sprintf("unknown mode %q (expected allow_all or space_list)", cfg.Mode),
		})
	}
	if cfg.Mode == "space_list" && len(cfg.Spaces) == 0 {
		errs = append(errs, FieldError{
			Field:   "auth.spaces",
			Message: "space_list mode requires at least one space",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (expected json or text)", cfg.Logging.Format),
		})
	}
	if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "path must start with /",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0 and 1",
		})
	}

	return errs
}
