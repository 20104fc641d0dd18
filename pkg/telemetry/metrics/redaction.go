package metrics

import (
	"pagecraft/quill/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RedactionMetrics tracks content validator activity.
//
// Metrics:
//   - quill_detections_total: Sensitive spans detected, by class
//   - quill_redaction_scans_total: Detection scans by outcome
//   - quill_redaction_pattern_reloads_total: Custom pattern file reloads
type RedactionMetrics struct {
	// Detected span counter by sensitive class
	detectionsTotal *prometheus.CounterVec

	// Detection scan counter by outcome
	scansTotal *prometheus.CounterVec

	// Pattern file reload counter
	reloadsTotal prometheus.Counter
}

// NewRedactionMetrics creates and registers redaction metrics with the
// provided registry.
func NewRedactionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RedactionMetrics {
	rm := &RedactionMetrics{
		detectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "detections_total",
				Help:      "Total number of sensitive spans detected in caller-supplied text",
			},
			[]string{"class"},
		),

		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "redaction_scans_total",
				Help:      "Total number of detection scans by outcome",
			},
			[]string{"outcome"},
		),

		reloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "redaction_pattern_reloads_total",
				Help:      "Total number of custom pattern file reloads",
			},
		),
	}

	registry.MustRegister(
		rm.detectionsTotal,
		rm.scansTotal,
		rm.reloadsTotal,
	)

	return rm
}

// RecordDetections records matched spans for a sensitive class.
//
// Parameters:
//   - class: sensitive class name (e.g., "government_id", "payment_card",
//     "email", "credential")
//   - count: number of spans matched in this pass
func (rm *RedactionMetrics) RecordDetections(class string, count int) {
	if count > 0 {
		rm.detectionsTotal.WithLabelValues(class).Add(float64(count))
	}
}

// RecordScan records a detection scan outcome.
//
// Parameters:
//   - outcome: "clean" when no sensitive content was found, "flagged" otherwise
func (rm *RedactionMetrics) RecordScan(outcome string) {
	rm.scansTotal.WithLabelValues(outcome).Inc()
}

// RecordReload records a reload of the custom pattern file.
func (rm *RedactionMetrics) RecordReload() {
	rm.reloadsTotal.Inc()
}
