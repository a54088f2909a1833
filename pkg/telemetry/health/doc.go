// Package health serves the gateway's liveness, readiness and version
// endpoints.
//
// Liveness answers {"status":"healthy","uptime":<seconds>,"timestamp":...}
// as long as the process is serving. Readiness runs registered checks, such
// as whether an API key can be resolved or the rate limit store responds,
// and answers 503 when any of them fails.
package health
