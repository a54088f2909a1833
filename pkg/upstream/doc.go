// Package upstream is the HTTP client for the Generative Language API.
//
// One call is one attempt: the client has no retry or backoff of its own.
// Every failure is one of three typed errors so callers can decide what to
// do next with errors.As:
//
//   - *StatusError: the upstream answered with a non-2xx status
//   - *TransportError: the request went out but no answer came back
//   - *RequestError: the request could not be built or decoded
//
// The API key travels as the key query parameter. It is redacted from every
// URL the package logs or embeds in an error.
package upstream
