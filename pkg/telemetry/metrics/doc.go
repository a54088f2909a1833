// Package metrics exposes gateway metrics in Prometheus format.
//
// Metrics (prefixed with namespace_subsystem_, "vhbc_gateway_" by default):
//
//   - requests_total{status,kind}
//   - request_duration_seconds{kind}
//   - upstream_attempts_total{candidate,outcome}
//   - upstream_latency_seconds{candidate}
//   - upstream_fallbacks_total
//   - ratelimit_rejections_total
//   - ratelimit_store_errors_total{op}
//   - ratelimit_tracked_clients
//
// The Collector is passed to the forwarding engine as its attempt observer
// and to the HTTP middleware. Its Handler serves the registry.
package metrics
