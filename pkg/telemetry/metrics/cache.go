package metrics

import (
	"pagecraft/quill/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks completion cache performance.
//
// Metrics:
//   - quill_cache_hits_total: Total cache hits by cache name
//   - quill_cache_misses_total: Total cache misses by cache name
//   - quill_cache_entries: Current number of entries in cache
//   - quill_cache_evictions_total: Entries removed to make room at capacity
//   - quill_cache_expirations_total: Entries removed because their TTL elapsed
type CacheMetrics struct {
	// Cache hit counter
	hitsTotal *prometheus.CounterVec

	// Cache miss counter
	missesTotal *prometheus.CounterVec

	// Current cache size (entries)
	entries *prometheus.GaugeVec

	// Capacity eviction counter
	evictionsTotal *prometheus.CounterVec

	// TTL expiration counter
	expirationsTotal *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics with the provided
// registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Current number of entries in cache",
			},
			[]string{"cache"},
		),

		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total number of entries evicted to make room at capacity",
			},
			[]string{"cache"},
		),

		expirationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_expirations_total",
				Help:      "Total number of entries removed after their TTL elapsed",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.entries,
		cm.evictionsTotal,
		cm.expirationsTotal,
	)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	cm.hitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	cm.missesTotal.WithLabelValues(cacheName).Inc()
}

// UpdateSize updates the current size of a cache.
func (cm *CacheMetrics) UpdateSize(cacheName string, size int) {
	cm.entries.WithLabelValues(cacheName).Set(float64(size))
}

// RecordEviction records an entry removed to make room for a new one.
func (cm *CacheMetrics) RecordEviction(cacheName string) {
	cm.evictionsTotal.WithLabelValues(cacheName).Inc()
}

// RecordExpiration records an entry removed because its TTL elapsed.
func (cm *CacheMetrics) RecordExpiration(cacheName string) {
	cm.expirationsTotal.WithLabelValues(cacheName).Inc()
}

// AddEvictions adds n capacity evictions at once, for callers that
// forward counter deltas from the cache's own statistics.
func (cm *CacheMetrics) AddEvictions(cacheName string, n int64) {
	if n > 0 {
		cm.evictionsTotal.WithLabelValues(cacheName).Add(float64(n))
	}
}

// AddExpirations adds n TTL expirations at once.
func (cm *CacheMetrics) AddExpirations(cacheName string, n int64) {
	if n > 0 {
		cm.expirationsTotal.WithLabelValues(cacheName).Add(float64(n))
	}
}
