package metrics

import (
	"time"

	"vhbc/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the gateway's Prometheus metrics. It implements the
// forwarding engine's attempt observer, so the engine reports upstream
// attempts directly.
//
// A disabled collector still registers its metrics but records nothing.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics   *RequestMetrics
	upstreamMetrics  *UpstreamMetrics
	rateLimitMetrics *RateLimitMetrics
}

// NewCollector creates a collector registered on registry. A nil registry
// means a fresh one, never the global default.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		requestMetrics:   NewRequestMetrics(cfg, registry),
		upstreamMetrics:  NewUpstreamMetrics(cfg, registry),
		rateLimitMetrics: NewRateLimitMetrics(cfg, registry),
	}
}

// RecordRequest records a finished chat request. kind is the error kind, or
// "none" for a success.
func (c *Collector) RecordRequest(status int, kind string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRequest(status, kind, duration)
}

// ObserveAttempt records one upstream attempt against a candidate.
func (c *Collector) ObserveAttempt(candidate, outcome string, d time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.upstreamMetrics.RecordAttempt(candidate, outcome, d)
}

// ObserveFallback records a fallback to the next candidate.
func (c *Collector) ObserveFallback() {
	if !c.config.Enabled {
		return
	}
	c.upstreamMetrics.RecordFallback()
}

// RecordRateLimitRejection counts a request refused by the rate limiter.
func (c *Collector) RecordRateLimitRejection() {
	if !c.config.Enabled {
		return
	}
	c.rateLimitMetrics.RecordRejection()
}

// RecordRateLimitStoreError counts a failed rate limit store operation.
func (c *Collector) RecordRateLimitStoreError(op string) {
	if !c.config.Enabled {
		return
	}
	c.rateLimitMetrics.RecordStoreError(op)
}

// SetRateLimitKeys reports the number of client windows currently tracked.
func (c *Collector) SetRateLimitKeys(n int) {
	if !c.config.Enabled {
		return
	}
	c.rateLimitMetrics.SetKeys(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
