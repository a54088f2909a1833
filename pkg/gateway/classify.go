package gateway

import (
	"errors"
	"net/http"

	"vhbc/gateway/pkg/upstream"
)

// Classifier maps failures onto the client error contract.
type Classifier struct {
	production bool
}

// NewClassifier creates a Classifier. In production mode internal failures
// are reported with a generic message.
func NewClassifier(production bool) *Classifier {
	return &Classifier{production: production}
}

// Classify returns the ClassifiedError for err. It is a pure function of its
// input: already-classified errors come back unchanged, and a nil error is
// treated as ErrExhausted.
func (c *Classifier) Classify(err error) *ClassifiedError {
	if err == nil {
		err = ErrExhausted
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ClassifiedError{
			Status:  http.StatusBadRequest,
			Kind:    KindValidation,
			Message: ve.Message,
			Cause:   err,
		}
	}

	var se *upstream.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = MsgUpstreamFailed
		}
		return &ClassifiedError{
			Status:         se.StatusCode,
			Kind:           KindUpstream,
			Message:        msg,
			UpstreamStatus: se.StatusCode,
			Cause:          err,
		}
	}

	var te *upstream.TransportError
	if errors.As(err, &te) {
		return &ClassifiedError{
			Status:  http.StatusServiceUnavailable,
			Kind:    KindServiceUnavailable,
			Message: MsgUnreachable,
			Cause:   err,
		}
	}

	msg := err.Error()
	if c.production {
		msg = MsgInternalProduction
	}
	return &ClassifiedError{
		Status:  http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: msg,
		Cause:   err,
	}
}
