package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)

	// Provider defaults
	DefaultProviderName           = "openai"
	DefaultProviderBaseURL        = "https://api.openai.com/v1"
	DefaultProviderAPIKeyName     = "provider.api_key"
	DefaultProviderMaxTokens      = 512
	DefaultProviderTemperature    = 0.7
	DefaultProviderConnectTimeout = 10 * time.Second
	DefaultProviderRequestTimeout = 30 * time.Second
	DefaultMaxIdleConns           = 100
	DefaultMaxIdleConnsPerHost    = 10
	DefaultIdleConnTimeout        = 90 * time.Second

	// Redaction defaults
	DefaultRedactionDebounce = 200 * time.Millisecond

	// Cache defaults
	DefaultCacheEnabled  = true
	DefaultCacheTTL      = time.Hour
	DefaultCacheCapacity = 1000
	DefaultCacheShards   = 16

	// Quota defaults
	DefaultQuotaDailyLimit = int64(200)
	DefaultQuotaBackend    = "memory"

	// Ledger defaults
	DefaultLedgerEnabled        = true
	DefaultLedgerBackend        = "memory"
	DefaultLedgerBufferSize     = 1024
	DefaultLedgerMemoryCapacity = 10000
	DefaultLedgerRetentionDays  = 90
	DefaultLedgerPruneSchedule  = "0 3 * * *"
	DefaultLedgerSQLitePath     = "data/ledger.db"
	DefaultQuotaSQLitePath      = "data/quota.db"

	// Secrets defaults
	DefaultSecretsEnvPrefix    = "QUILL_"
	DefaultSecretsCacheTTL     = 5 * time.Minute
	DefaultSecretsCacheMaxSize = 32

	// Auth defaults
	DefaultAuthMode = "allow_all"

	// Telemetry defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "json"
	DefaultRedactContent     = true
	DefaultMetricsEnabled    = true
	DefaultMetricsPath       = "/metrics"
	DefaultMetricsNamespace  = "quill"
	DefaultMaxCardinality    = 1000
	DefaultTracingEnabled    = false
	DefaultTracingService    = "quill"
	DefaultTracingSampleRate = 0.1
)

// DefaultRequestDurationBuckets covers both cache hits (milliseconds)
// and provider round trips (seconds).
func DefaultRequestDurationBuckets() []float64 {
	return []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}
}

// DefaultAllowedModels returns the model allow-list applied when the
// configuration names none.
func DefaultAllowedModels() []string {
	return []string{"gpt-4o-mini", "gpt-4o"}
}

// ApplyDefaults applies default values to a Config struct. It sets
// defaults for any fields that have zero values. This function is
// idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Provider defaults
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = DefaultProviderName
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultProviderBaseURL
	}
	if cfg.Provider.APIKeyName == "" {
		cfg.Provider.APIKeyName = DefaultProviderAPIKeyName
	}
	if cfg.Provider.MaxTokens == 0 {
		cfg.Provider.MaxTokens = DefaultProviderMaxTokens
	}
	if cfg.Provider.Temperature == 0 {
		cfg.Provider.Temperature = DefaultProviderTemperature
	}
	if cfg.Provider.ConnectTimeout == 0 {
		cfg.Provider.ConnectTimeout = DefaultProviderConnectTimeout
	}
	if cfg.Provider.RequestTimeout == 0 {
		cfg.Provider.RequestTimeout = DefaultProviderRequestTimeout
	}
	if cfg.Provider.MaxIdleConns == 0 {
		cfg.Provider.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Provider.MaxIdleConnsPerHost == 0 {
		cfg.Provider.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Provider.IdleConnTimeout == 0 {
		cfg.Provider.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Models defaults
	if len(cfg.Models.Allowed) == 0 {
		cfg.Models.Allowed = DefaultAllowedModels()
	}
	if cfg.Models.Default == "" {
		cfg.Models.Default = cfg.Models.Allowed[0]
	}

	// Redaction defaults
	if cfg.Redaction.DebounceInterval == 0 {
		cfg.Redaction.DebounceInterval = DefaultRedactionDebounce
	}

	// Cache defaults
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = DefaultCacheCapacity
	}
	if cfg.Cache.Shards == 0 {
		cfg.Cache.Shards = DefaultCacheShards
	}

	// Quota defaults
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = DefaultQuotaDailyLimit
	}
	if cfg.Quota.Backend == "" {
		cfg.Quota.Backend = DefaultQuotaBackend
	}
	if cfg.Quota.SQLite.Path == "" {
		cfg.Quota.SQLite.Path = DefaultQuotaSQLitePath
	}

	// Ledger defaults
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = DefaultLedgerBackend
	}
	if cfg.Ledger.BufferSize == 0 {
		cfg.Ledger.BufferSize = DefaultLedgerBufferSize
	}
	if cfg.Ledger.MemoryCapacity == 0 {
		cfg.Ledger.MemoryCapacity = DefaultLedgerMemoryCapacity
	}
	if cfg.Ledger.RetentionDays == 0 {
		cfg.Ledger.RetentionDays = DefaultLedgerRetentionDays
	}
	if cfg.Ledger.PruneSchedule == "" {
		cfg.Ledger.PruneSchedule = DefaultLedgerPruneSchedule
	}
	if cfg.Ledger.SQLite.Path == "" {
		cfg.Ledger.SQLite.Path = DefaultLedgerSQLitePath
	}

	// Secrets defaults
	if cfg.Secrets.EnvPrefix == "" {
		cfg.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
	if cfg.Secrets.CacheTTL == 0 {
		cfg.Secrets.CacheTTL = DefaultSecretsCacheTTL
	}
	if cfg.Secrets.CacheMaxSize == 0 {
		cfg.Secrets.CacheMaxSize = DefaultSecretsCacheMaxSize
	}

	// Auth defaults
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = DefaultAuthMode
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = DefaultRequestDurationBuckets()
	}
	if cfg.Telemetry.Metrics.MaxCardinality == 0 {
		cfg.Telemetry.Metrics.MaxCardinality = DefaultMaxCardinality
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRate
	}
}

// NewDefault returns a configuration with every default applied and
// cache, ledger, and metrics enabled. It is the configuration quill
// runs with when no file is given.
func NewDefault() *Config {
	cfg := &Config{}
	seedEnabledDefaults(cfg)
	ApplyDefaults(cfg)
	return cfg
}

// seedEnabledDefaults sets the booleans that default to on. They must
// be set before YAML unmarshalling because an absent key and an
// explicit false are indistinguishable afterwards.
func seedEnabledDefaults(cfg *Config) {
	cfg.Cache.Enabled = DefaultCacheEnabled
	cfg.Ledger.Enabled = DefaultLedgerEnabled
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Logging.RedactContent = DefaultRedactContent
}
