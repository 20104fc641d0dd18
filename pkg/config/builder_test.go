package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with sensible defaults for
// testing. The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	var cfg Config
	ApplyDefaults(&cfg)
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithListenAddress sets the server listen address.
func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

// WithProviderBaseURL sets the provider base URL.
func (b *ConfigBuilder) WithProviderBaseURL(baseURL string) *ConfigBuilder {
	b.cfg.Provider.BaseURL = baseURL
	return b
}

// WithModels sets the model allowlist and default model.
func (b *ConfigBuilder) WithModels(defaultModel string, allowed ...string) *ConfigBuilder {
	b.cfg.Models.Allowed = allowed
	b.cfg.Models.Default = defaultModel
	return b
}

// WithCache sets cache parameters.
func (b *ConfigBuilder) WithCache(enabled bool, ttl time.Duration, capacity int) *ConfigBuilder {
	b.cfg.Cache.Enabled = enabled
	b.cfg.Cache.TTL = ttl
	b.cfg.Cache.Capacity = capacity
	return b
}

// WithQuota enables quota enforcement with the given daily limit.
func (b *ConfigBuilder) WithQuota(dailyLimit int64) *ConfigBuilder {
	b.cfg.Quota.Enabled = true
	b.cfg.Quota.DailyLimit = dailyLimit
	return b
}

// WithQuotaBackend sets the quota persistence backend.
func (b *ConfigBuilder) WithQuotaBackend(backend, path string) *ConfigBuilder {
	b.cfg.Quota.Backend = backend
	b.cfg.Quota.SQLite.Path = path
	return b
}

// WithLedgerBackend sets the ledger persistence backend.
func (b *ConfigBuilder) WithLedgerBackend(backend, path string) *ConfigBuilder {
	b.cfg.Ledger.Backend = backend
	b.cfg.Ledger.SQLite.Path = path
	return b
}

// WithAuthMode sets the authorization mode.
func (b *ConfigBuilder) WithAuthMode(mode string) *ConfigBuilder {
	b.cfg.Auth.Mode = mode
	return b
}

// WithSpace grants subjects access to a space in space_list mode.
func (b *ConfigBuilder) WithSpace(spaceKey string, subjects ...string) *ConfigBuilder {
	if b.cfg.Auth.Spaces == nil {
		b.cfg.Auth.Spaces = make(map[string][]string)
	}
	b.cfg.Auth.Spaces[spaceKey] = subjects
	b.cfg.Auth.Mode = "space_list"
	return b
}

// WithLoggingLevel sets the logging level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithMetricsEnabled sets whether metrics are enabled.
func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

// WithTracingEnabled sets whether tracing is enabled.
func (b *ConfigBuilder) WithTracingEnabled(enabled bool, endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = enabled
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	if b.cfg.Telemetry.Tracing.SampleRatio == 0 {
		b.cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRate
	}
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
// This is useful for tests that don't care about most configuration values.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
