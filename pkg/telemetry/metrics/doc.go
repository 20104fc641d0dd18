// Package metrics provides Prometheus metrics collection for Quill.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring the
// generation pipeline, provider health, cache performance, redaction
// activity, and quota enforcement. All metrics share a single registry
// owned by the Collector.
//
// # Metrics Categories
//
//   - Generation Metrics: Operation count, end-to-end duration, tokens
//   - Provider Metrics: Provider health, latency, and error rates
//   - Cache Metrics: Hits, misses, evictions, expirations, and size
//   - Redaction Metrics: Redacted spans by class, scan outcomes, reloads
//   - Quota Metrics: Daily budget rejections and usage per space
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(cfg, nil)
//
//	// Record a completed generation
//	collector.RecordGeneration(
//		"generate",       // operation
//		"gpt-4o-mini",    // model
//		"success",        // status
//		1200*time.Millisecond,
//	)
//
//	// Record provider metrics
//	collector.RecordProviderLatency("openai", "gpt-4o-mini", 950*time.Millisecond)
//	collector.UpdateProviderHealth("openai", true)
//
//	// Record cache metrics
//	collector.RecordCacheHit("completions")
//
// # Histogram Buckets
//
// The duration buckets span sub-millisecond cache hits through 30-second
// provider round trips:
//
//	0.005s, 0.01s, 0.05s, 0.1s, 0.5s, 1s, 2s, 5s, 10s, 30s
//
// # Prometheus Endpoint
//
// All metrics are exposed on the /metrics endpoint in standard Prometheus
// format:
//
//	# HELP quill_generate_requests_total Total number of generation operations processed
//	# TYPE quill_generate_requests_total counter
//	quill_generate_requests_total{operation="generate",model="gpt-4o-mini",status="success"} 1234
//
// # Cardinality Management
//
// The collector caps the number of unique label combinations; once the
// limit is reached, new model labels are aggregated into "other". The cap
// comes from MetricsConfig.MaxCardinality.
package metrics
