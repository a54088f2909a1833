// Package telemetry groups the gateway's observability packages.
//
//   - logging: slog setup, request-scoped attributes and credential redaction
//   - metrics: Prometheus collectors for requests, upstream attempts and the
//     rate limiter
//   - tracing: OpenTelemetry spans for inbound requests and upstream attempts
//   - health: liveness, readiness and version endpoints
//
// Every piece is optional. A nil collector or tracer simply is not
// installed by the server.
package telemetry
