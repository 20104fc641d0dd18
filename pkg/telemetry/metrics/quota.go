package metrics

import (
	"pagecraft/quill/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QuotaMetrics tracks per-space daily budget enforcement.
//
// Metrics:
//   - quill_quota_rejections_total: Requests rejected over budget, by space
//   - quill_quota_usage: Current daily usage gauge, by space
type QuotaMetrics struct {
	// Rejection counter by space
	rejectionsTotal *prometheus.CounterVec

	// Current daily usage gauge by space
	usage *prometheus.GaugeVec
}

// NewQuotaMetrics creates and registers quota metrics with the provided
// registry.
func NewQuotaMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QuotaMetrics {
	qm := &QuotaMetrics{
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quota_rejections_total",
				Help:      "Total number of requests rejected because a space exhausted its daily budget",
			},
			[]string{"space"},
		),

		usage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quota_usage",
				Help:      "Provider calls consumed by a space in the current UTC day",
			},
			[]string{"space"},
		),
	}

	registry.MustRegister(
		qm.rejectionsTotal,
		qm.usage,
	)

	return qm
}

// RecordRejection records a request rejected over budget.
func (qm *QuotaMetrics) RecordRejection(spaceKey string) {
	qm.rejectionsTotal.WithLabelValues(spaceKey).Inc()
}

// UpdateUsage updates the current daily usage gauge for a space.
func (qm *QuotaMetrics) UpdateUsage(spaceKey string, used int64) {
	qm.usage.WithLabelValues(spaceKey).Set(float64(used))
}
