package metrics

import (
	"fmt"
	"sync"
	"time"

	"pagecraft/quill/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics in Quill.
// It manages metric registration, collection, and provides a unified
// interface for recording metrics across all components.
//
// The collector is designed for minimal overhead on the request path:
//   - Pre-allocated metric instances
//   - Cardinality limits to prevent memory issues
//   - Histogram buckets that cover both cache hits (sub-millisecond)
//     and provider round trips (seconds)
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Generation metrics
	generationMetrics *GenerationMetrics

	// Provider metrics
	providerMetrics *ProviderMetrics

	// Cache metrics
	cacheMetrics *CacheMetrics

	// Redaction metrics
	redactionMetrics *RedactionMetrics

	// Quota metrics
	quotaMetrics *QuotaMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "quill",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "quill"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets()
	}
	maxCardinality := cfg.MaxCardinality
	if maxCardinality <= 0 {
		maxCardinality = config.DefaultMaxCardinality
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(maxCardinality),
	}

	c.generationMetrics = NewGenerationMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)
	c.redactionMetrics = NewRedactionMetrics(cfg, registry)
	c.quotaMetrics = NewQuotaMetrics(cfg, registry)

	return c
}

// RecordGeneration records metrics for a completed generation operation.
//
// Parameters:
//   - operation: operation name (e.g., "generate")
//   - model: model identifier (e.g., "gpt-4o-mini")
//   - status: outcome ("ok", "security_error", "quota_error", ...)
//   - duration: total operation duration
func (c *Collector) RecordGeneration(operation, model, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	labelSet := fmt.Sprintf("generate:%s:%s:%s", operation, model, status)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		model = "other"
	}

	c.generationMetrics.RecordRequest(operation, model, status, duration)
}

// RecordTokens records prompt and completion token usage reported by
// the provider.
func (c *Collector) RecordTokens(model string, promptTokens, completionTokens int) {
	if !c.config.Enabled {
		return
	}

	c.generationMetrics.RecordTokens(model, promptTokens, completionTokens)
}

// RecordProviderRequest counts a request dispatched to a provider.
func (c *Collector) RecordProviderRequest(provider, model string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordRequest(provider, model)
}

// RecordProviderLatency records the latency for a provider API call.
func (c *Collector) RecordProviderLatency(provider, model string, latency time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordLatency(provider, model, latency)
}

// RecordProviderError records an error from a provider.
//
// Parameters:
//   - provider: provider name
//   - errorType: type of error (e.g., "rate_limit", "timeout", "auth", "server_error")
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordError(provider, errorType)
}

// UpdateProviderHealth updates the health status of a provider.
// The health metric is a gauge where 1=healthy, 0=unhealthy.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.UpdateHealth(provider, healthy)
}

// RecordCacheHit records a cache hit.
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordHit(cacheName)
}

// RecordCacheMiss records a cache miss.
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordMiss(cacheName)
}

// RecordCacheEviction records a capacity eviction.
func (c *Collector) RecordCacheEviction(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordEviction(cacheName)
}

// RecordCacheExpiration records removal of an entry whose TTL elapsed.
func (c *Collector) RecordCacheExpiration(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordExpiration(cacheName)
}

// AddCacheEvictions adds n capacity evictions, for callers that forward
// counter deltas from the cache's own statistics.
func (c *Collector) AddCacheEvictions(cacheName string, n int64) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.AddEvictions(cacheName, n)
}

// AddCacheExpirations adds n TTL expirations.
func (c *Collector) AddCacheExpirations(cacheName string, n int64) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.AddExpirations(cacheName, n)
}

// UpdateCacheSize updates the current size of a cache.
func (c *Collector) UpdateCacheSize(cacheName string, size int) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.UpdateSize(cacheName, size)
}

// RecordDetections records how many spans of a sensitive class a scan
// matched.
func (c *Collector) RecordDetections(class string, count int) {
	if !c.config.Enabled {
		return
	}

	c.redactionMetrics.RecordDetections(class, count)
}

// RecordRedactionScan records the outcome of a detection scan.
//
// Parameters:
//   - outcome: "clean" or "flagged"
func (c *Collector) RecordRedactionScan(outcome string) {
	if !c.config.Enabled {
		return
	}

	c.redactionMetrics.RecordScan(outcome)
}

// RecordPatternReload records a reload of the custom pattern file.
func (c *Collector) RecordPatternReload() {
	if !c.config.Enabled {
		return
	}

	c.redactionMetrics.RecordReload()
}

// RecordQuotaRejection records a request rejected because a space
// exhausted its daily budget.
func (c *Collector) RecordQuotaRejection(spaceKey string) {
	if !c.config.Enabled {
		return
	}

	c.quotaMetrics.RecordRejection(spaceKey)
}

// UpdateQuotaUsage updates the current daily usage gauge for a space.
func (c *Collector) UpdateQuotaUsage(spaceKey string, used int64) {
	if !c.config.Enabled {
		return
	}

	c.quotaMetrics.UpdateUsage(spaceKey, used)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the
// specified maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
