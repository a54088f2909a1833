// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server composes the middleware outermost first:
//
//	Recovery -> RequestID -> Logging -> Tracing -> SecurityHeaders -> CORS -> RateLimit -> mux
//
// Recovery sits outside everything so a panic anywhere still yields a JSON
// 500. RequestID runs before Logging so every log line carries the ID. CORS
// answers preflight requests before the limiter counts them.
//
// # Middleware Types
//
// Request tracking:
//   - RequestIDMiddleware: reuse or generate an X-Request-ID
//   - LoggingMiddleware: one structured line per request
//
// Security and resilience:
//   - RecoveryMiddleware: recover from panics, return a JSON 500
//   - SecurityHeadersMiddleware: hardening response headers
//   - CORSMiddleware: origin policy and preflight handling
//   - RateLimitMiddleware: fixed-window per-client limiting
//
// Tracing middleware lives in pkg/telemetry/tracing.
package middleware
