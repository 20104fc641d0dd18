package metrics

import (
	"time"

	"pagecraft/quill/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics tracks metrics for the generation pipeline.
//
// Metrics:
//   - quill_generate_requests_total: Total operation count by operation, model, status
//   - quill_generate_duration_seconds: End-to-end operation duration histogram
//   - quill_generate_tokens_total: Tokens reported by the provider
type GenerationMetrics struct {
	// Total operation count
	requestsTotal *prometheus.CounterVec

	// End-to-end duration histogram
	requestDuration *prometheus.HistogramVec

	// Token counts (prompt and completion)
	tokensTotal *prometheus.CounterVec
}

// NewGenerationMetrics creates and registers generation metrics with the
// provided registry.
func NewGenerationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GenerationMetrics {
	gm := &GenerationMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generate_requests_total",
				Help:      "Total number of generation operations processed",
			},
			[]string{"operation", "model", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generate_duration_seconds",
				Help:      "End-to-end duration of generation operations in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"operation", "model"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generate_tokens_total",
				Help:      "Total number of tokens reported by the provider",
			},
			[]string{"model", "type"},
		),
	}

	registry.MustRegister(
		gm.requestsTotal,
		gm.requestDuration,
		gm.tokensTotal,
	)

	return gm
}

// RecordRequest records a completed generation operation.
//
// Parameters:
//   - operation: operation name (e.g., "generate")
//   - model: model identifier
//   - status: outcome ("ok" or an error kind such as "security_error")
//   - duration: end-to-end duration, including cache lookups
func (gm *GenerationMetrics) RecordRequest(operation, model, status string, duration time.Duration) {
	gm.requestsTotal.WithLabelValues(operation, model, status).Inc()
	gm.requestDuration.WithLabelValues(operation, model).Observe(duration.Seconds())
}

// RecordTokens records token counts separately for prompt and completion.
func (gm *GenerationMetrics) RecordTokens(model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		gm.tokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		gm.tokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}
