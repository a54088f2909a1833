// Package diagnostics checks an API key and probes which model and API
// version combinations answer, without going through the gateway.
//
// CheckKey lists the models a key can see and keeps those that support
// generateContent. Prober sends a short prompt to each target in order and
// stops at the first one that answers.
package diagnostics
