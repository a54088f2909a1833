package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// StatusError is returned when the upstream answered with a non-2xx status.
type StatusError struct {
	// StatusCode is the HTTP status returned by the upstream.
	StatusCode int

	// Message is error.message from the upstream body, empty when absent.
	Message string

	// Body is the raw response body.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// NotFound reports whether the upstream did not recognize the model or
// API version at this address.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == 404
}

// TransportError is returned when a request was sent but no response came
// back: connection failures, resets and timeouts.
type TransportError struct {
	// URL is the target with credentials redacted.
	URL string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s unreachable: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Cause, &netErr) && netErr.Timeout()
}

// RequestError is returned when the request could not be constructed.
type RequestError struct {
	// Op describes the step that failed.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *RequestError) Unwrap() error {
	return e.Cause
}
