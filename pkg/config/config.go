package config

import "time"

// Config is the root configuration structure for quill. It contains
// all configuration sections for the HTTP server, the generative
// provider, content redaction, caching, quotas, the request ledger,
// and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen
	// address, timeouts, and host authentication.
	Server ServerConfig `yaml:"server"`

	// Provider contains the generative provider integration settings.
	Provider ProviderConfig `yaml:"provider"`

	// Models contains the model allowlist and the default model.
	Models ModelsConfig `yaml:"models"`

	// Redaction contains sensitive content detection settings.
	Redaction RedactionConfig `yaml:"redaction"`

	// Cache contains the completion cache settings.
	Cache CacheConfig `yaml:"cache"`

	// Quota contains per-space usage limits.
	Quota QuotaConfig `yaml:"quota"`

	// Ledger contains request ledger storage and retention settings.
	Ledger LedgerConfig `yaml:"ledger"`

	// Secrets contains secret provider settings.
	Secrets SecretsConfig `yaml:"secrets"`

	// Auth contains caller authorization settings.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains configuration for observability including
	// logging, metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single generation
	// request.
	// Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes caps the size of an accepted request body.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// RequireToken enables verification of the shared host token on
	// every request. The expected value is resolved from the secret
	// store under "server.auth_token".
	// Default: false
	RequireToken bool `yaml:"require_token"`
}

// ProviderConfig contains the generative provider settings. The
// bearer token is never configured here; it is resolved from the
// secret store under the configured key name.
type ProviderConfig struct {
	// Name identifies the provider in logs, errors, and metrics.
	// Default: "openai"
	Name string `yaml:"name"`

	// BaseURL is the API root, without the /chat/completions suffix.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKeyName is the secret store name the bearer token is resolved
	// under on every request.
	// Default: "provider.api_key"
	APIKeyName string `yaml:"api_key_name"`

	// MaxTokens caps the completion length requested from the
	// provider. Callers cannot override it.
	// Default: 512
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the fixed sampling temperature.
	// Default: 0.7
	Temperature float64 `yaml:"temperature"`

	// InputTokenBudget rejects requests whose estimated input size
	// exceeds it. Zero disables the check.
	// Default: 0
	InputTokenBudget int `yaml:"input_token_budget"`

	// ConnectTimeout bounds connection establishment, including the
	// TLS handshake.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// RequestTimeout bounds the whole provider exchange.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxIdleConns is the connection pool size across all hosts.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the connection pool size per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections are kept open.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// ModelsConfig contains the model allowlist.
type ModelsConfig struct {
	// Allowed lists the model identifiers callers may request. A
	// request naming any other model is refused before validation or
	// provider contact.
	Allowed []string `yaml:"allowed"`

	// Default is the model used when a request names none.
	// Must appear in Allowed.
	Default string `yaml:"default"`
}

// RedactionConfig contains sensitive content detection settings.
type RedactionConfig struct {
	// CustomPatternsPath points to a YAML file with additional
	// patterns layered over the built-in set. Empty disables custom
	// patterns.
	// Default: ""
	CustomPatternsPath string `yaml:"custom_patterns_path"`

	// Watch enables automatic reloading when the custom patterns file
	// changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces rapid file change events.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// CacheConfig contains the completion cache settings.
type CacheConfig struct {
	// Enabled controls whether completions are cached.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// TTL is how long a cached completion stays valid, measured from
	// its creation. Reads never extend it.
	// Default: 1h
	TTL time.Duration `yaml:"ttl"`

	// Capacity is the maximum number of cached completions across all
	// shards.
	// Default: 1000
	Capacity int `yaml:"capacity"`

	// Shards is the number of lock shards. Rounded up to a power of
	// two.
	// Default: 16
	Shards int `yaml:"shards"`
}

// QuotaConfig contains per-space usage limits.
type QuotaConfig struct {
	// Enabled controls whether quotas are enforced.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DailyLimit is the number of provider calls a space may consume
	// per UTC day. Served-from-cache requests are exempt.
	// Default: 200
	DailyLimit int64 `yaml:"daily_limit"`

	// Overrides maps space keys to per-space daily limits.
	Overrides map[string]int64 `yaml:"overrides"`

	// Backend selects the usage store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// LedgerConfig contains request ledger settings. The ledger stores
// accounting records only; prompt, context, and completion text are
// never persisted.
type LedgerConfig struct {
	// Enabled controls whether requests are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the ledger store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// BufferSize is the async recorder's queue length. When the queue
	// is full the oldest pending record is dropped.
	// Default: 1024
	BufferSize int `yaml:"buffer_size"`

	// MemoryCapacity caps the in-memory backend's record count.
	// Default: 10000
	MemoryCapacity int `yaml:"memory_capacity"`

	// RetentionDays is how many days of records the pruner keeps.
	// Zero disables pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for the retention job.
	// Default: "0 3 * * *" (daily at 03:00)
	PruneSchedule string `yaml:"prune_schedule"`
}

// SQLiteConfig contains settings for a sqlite-backed store.
type SQLiteConfig struct {
	// Path is the database file location.
	Path string `yaml:"path"`
}

// SecretsConfig contains secret provider settings.
type SecretsConfig struct {
	// EnvPrefix namespaces secret environment variables.
	// Default: "QUILL_"
	EnvPrefix string `yaml:"env_prefix"`

	// FilePath is a directory of secret files, tried before the
	// environment. Empty disables the file provider.
	// Default: ""
	FilePath string `yaml:"file_path"`

	// WatchFiles reloads file-based secrets on change.
	// Default: false
	WatchFiles bool `yaml:"watch_files"`

	// CacheTTL is how long resolved secrets are cached. Rotated keys
	// take effect within one TTL.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// CacheMaxSize is the maximum number of cached secrets.
	// Default: 32
	CacheMaxSize int `yaml:"cache_max_size"`
}

// AuthConfig contains caller authorization settings.
type AuthConfig struct {
	// Mode selects the authorizer.
	// Options: "allow_all" (host enforces permissions upstream),
	// "space_list" (per-space subject lists from Spaces)
	// Default: "allow_all"
	Mode string `yaml:"mode"`

	// Spaces maps space keys to allowed subjects when Mode is
	// "space_list". The subject "*" opens a space to all callers.
	Spaces map[string][]string `yaml:"spaces"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactContent runs log attribute values through the content
	// validator so sensitive text never reaches the log stream.
	// Default: true
	RedactContent bool `yaml:"redact_content"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "quill"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for generation
	// duration (seconds).
	// Default: [0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`

	// MaxCardinality caps the number of unique label sets before
	// models are aggregated into "other".
	// Default: 1000
	MaxCardinality int `yaml:"max_cardinality"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName identifies this service in traces.
	// Default: "quill"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of root spans sampled.
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`
}
