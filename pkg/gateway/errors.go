package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the client-facing error category.
type ErrorKind string

// Error kinds, each with a fixed HTTP status except upstream_error, which
// mirrors the upstream status.
const (
	KindValidation         ErrorKind = "validation_error"
	KindConfiguration      ErrorKind = "configuration_error"
	KindUpstream           ErrorKind = "upstream_error"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindInternal           ErrorKind = "internal_error"
)

// Label is the short "error" field sent to clients for this kind.
func (k ErrorKind) Label() string {
	switch k {
	case KindValidation:
		return "Invalid request"
	case KindConfiguration:
		return "Server configuration error"
	case KindUpstream:
		return "Gemini API error"
	case KindServiceUnavailable:
		return "Service unavailable"
	default:
		return "Internal server error"
	}
}

// Client-facing messages.
const (
	MsgContentsRequired   = "Contents array is required"
	MsgInvalidJSON        = "Request body must be a JSON object"
	MsgAPIKeyMissing      = "API key not configured"
	MsgNoCandidates       = "No upstream endpoint configured"
	MsgUpstreamFailed     = "Failed to get response from AI"
	MsgUnreachable        = "Could not reach upstream service"
	MsgInternalProduction = "Something went wrong"
)

// ErrExhausted is classified when every candidate was tried and no failure
// was recorded. The engine never produces it for a non-empty candidate list.
var ErrExhausted = errors.New("all upstream endpoints failed")

// ValidationError is returned by Validate for malformed requests.
type ValidationError struct {
	// Field is the offending field, empty for whole-body problems.
	Field string

	// Message is safe to return to the client.
	Message string

	// Cause is the underlying decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// ClassifiedError is the normalized client-facing form of any failure.
type ClassifiedError struct {
	// Status is the HTTP status to send.
	Status int

	// Kind is the error category.
	Kind ErrorKind

	// Message is the human-readable text sent to the client.
	Message string

	// UpstreamStatus is the upstream's status code, zero when unknown.
	UpstreamStatus int

	// Cause is the failure that was classified. Never sent to clients.
	Cause error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap returns the classified failure.
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// configurationError builds the 500 returned when the gateway cannot even
// start an attempt.
func configurationError(message string) *ClassifiedError {
	return &ClassifiedError{
		Status:  http.StatusInternalServerError,
		Kind:    KindConfiguration,
		Message: message,
	}
}
