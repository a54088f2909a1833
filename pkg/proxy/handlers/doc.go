// Package handlers provides the HTTP handlers mounted by the server.
//
// ChatHandler reads the request body under a size limit, hands it to a
// Pipeline (normally *gateway.Gateway) and writes either the upstream
// payload unchanged or a classified JSON error. RootHandler and
// NotFoundHandler cover the informational and catch-all routes, and Methods
// restricts a handler to a set of HTTP methods.
//
// Health, readiness and version endpoints live in pkg/telemetry/health.
package handlers
