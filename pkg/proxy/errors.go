package proxy

import (
	"errors"
	"net/http"

	"vhbc/gateway/pkg/gateway"
)

// ErrorBody is the JSON error body every endpoint returns.
type ErrorBody struct {
	// Error is the short category label.
	Error string `json:"error"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Kind is the machine-readable category, when the error was classified.
	Kind string `json:"kind,omitempty"`

	// StatusCode echoes the upstream status for upstream errors.
	StatusCode int `json:"statusCode,omitempty"`
}

// Classifier turns arbitrary failures into classified errors.
type Classifier interface {
	Classify(err error) *gateway.ClassifiedError
}

// HandleError maps err to an HTTP status and body. Transport-level problems
// detected in this package are handled here; everything else goes through
// the classifier.
func HandleError(c Classifier, err error) (int, ErrorBody) {
	var tooLarge *BodyTooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, ErrorBody{
			Error:   gateway.KindValidation.Label(),
			Message: "Request body too large",
			Kind:    string(gateway.KindValidation),
		}
	}

	ce := c.Classify(err)
	return ce.Status, ClassifiedBody(ce)
}

// ClassifiedBody renders a classified error for the client.
func ClassifiedBody(ce *gateway.ClassifiedError) ErrorBody {
	return ErrorBody{
		Error:      ce.Kind.Label(),
		Message:    ce.Message,
		Kind:       string(ce.Kind),
		StatusCode: ce.UpstreamStatus,
	}
}

// Fixed bodies for routing and limiter responses.
var (
	NotFoundBody = ErrorBody{
		Error:   "Not found",
		Message: "The requested endpoint does not exist",
	}

	MethodNotAllowedBody = ErrorBody{
		Error:   "Method not allowed",
		Message: "The requested method is not supported for this endpoint",
	}

	TooManyRequestsBody = ErrorBody{
		Error:   "Too many requests",
		Message: "Too many requests from this IP, please try again later.",
	}
)

// InternalErrorBody is sent when a handler panics. The detail is included
// only outside production.
func InternalErrorBody(detail string, production bool) ErrorBody {
	msg := detail
	if production || msg == "" {
		msg = gateway.MsgInternalProduction
	}
	return ErrorBody{
		Error:   gateway.KindInternal.Label(),
		Message: msg,
		Kind:    string(gateway.KindInternal),
	}
}
