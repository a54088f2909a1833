package metrics

import (
	"vhbc/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RateLimitMetrics tracks the per-client request limiter.
type RateLimitMetrics struct {
	rejections  prometheus.Counter
	storeErrors *prometheus.CounterVec
	keys        prometheus.Gauge
}

// NewRateLimitMetrics creates and registers rate limit metrics with the provided registry.
func NewRateLimitMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *RateLimitMetrics {
	rl := &RateLimitMetrics{
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ratelimit_rejections_total",
			Help:      "Requests rejected with 429 by the rate limiter",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ratelimit_store_errors_total",
			Help:      "Rate limit store failures by operation",
		}, []string{"op"}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ratelimit_tracked_clients",
			Help:      "Client windows held by the rate limit store after the last cleanup",
		}),
	}

	registry.MustRegister(rl.rejections, rl.storeErrors, rl.keys)
	return rl
}

// RecordRejection increments the rejection counter.
func (rl *RateLimitMetrics) RecordRejection() { rl.rejections.Inc() }

// RecordStoreError increments the store error counter for op.
func (rl *RateLimitMetrics) RecordStoreError(op string) { rl.storeErrors.WithLabelValues(op).Inc() }

// SetKeys sets the tracked clients gauge.
func (rl *RateLimitMetrics) SetKeys(n int) { rl.keys.Set(float64(n)) }
