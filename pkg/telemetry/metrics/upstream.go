package metrics

import (
	"time"

	"vhbc/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to the generative model endpoints.
//
// Candidates come from configuration, so the candidate label stays bounded.
type UpstreamMetrics struct {
	attempts  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	fallbacks prometheus.Counter
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_attempts_total",
				Help:      "Upstream attempts by candidate base URL and outcome",
			},
			[]string{"candidate", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_latency_seconds",
				Help:      "Upstream attempt latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"candidate"},
		),

		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_fallbacks_total",
				Help:      "Times a not-found response moved forwarding to the next candidate",
			},
		),
	}

	registry.MustRegister(um.attempts, um.latency, um.fallbacks)
	return um
}

// RecordAttempt records one attempt and its latency.
func (um *UpstreamMetrics) RecordAttempt(candidate, outcome string, d time.Duration) {
	um.attempts.WithLabelValues(candidate, outcome).Inc()
	um.latency.WithLabelValues(candidate).Observe(d.Seconds())
}

// RecordFallback increments the fallback counter.
func (um *UpstreamMetrics) RecordFallback() {
	um.fallbacks.Inc()
}
