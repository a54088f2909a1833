// Package server provides the HTTP server for the chat gateway.
//
// The server mounts the chat, informational, health and metrics endpoints,
// wraps them in the middleware chain and manages the listener lifecycle,
// including TLS termination and graceful shutdown.
//
// # Routes
//
//	GET  /             status banner
//	GET  /api/health   liveness with process uptime
//	GET  /api/ready    readiness checks (API key, rate limit store)
//	GET  /api/version  build information
//	POST /api/chat     chat gateway
//	GET  /metrics      Prometheus scrape endpoint, when enabled
//
// Any other path answers 404 with a JSON body; a known path with the wrong
// method answers 405.
//
// # Basic Usage
//
//	srv := server.NewServer(cfg, server.Options{
//	    Gateway: gw,
//	    Keys:    keys,
//	    Limiter: limiter,
//	    Metrics: collector,
//	    Tracer:  tracer,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled, then drains in-flight requests for up
// to Server.ShutdownTimeout.
package server
