// Package tracing sets up OpenTelemetry tracing for the gateway.
//
// With tracing disabled, New returns a noop tracer and the rest of the
// gateway runs unchanged. With tracing enabled, spans are exported over
// OTLP gRPC to the configured collector and sampled by trace ID ratio,
// respecting the sampling decision of an incoming traceparent header.
//
// Spans produced per chat request:
//
//	POST /api/chat          server span from Middleware
//	└── gateway.forward     one per forwarding run
//	    └── gateway.attempt one per candidate tried
package tracing
