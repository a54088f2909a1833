package gateway

import (
	"encoding/json"
	"time"
)

// DefaultModel is the model used when neither the request nor the operator
// names one.
const DefaultModel = "gemini-1.5-flash"

// ChatRequest is a validated inbound chat request.
type ChatRequest struct {
	// Contents is the client's message sequence, passed upstream untouched.
	Contents json.RawMessage

	// Model overrides the target model when non-empty.
	Model string
}

// Settings is the immutable operator configuration the core reads.
// It is copied into the Resolver and Engine at construction time.
type Settings struct {
	// DefaultModel is the operator default, used when a request has no model.
	DefaultModel string

	// BaseURL is an operator override tried before the built-in addresses.
	BaseURL string

	// FallbackBaseURLs is the fixed list of known upstream addresses.
	// Nil means the Generative Language v1 and v1beta endpoints.
	FallbackBaseURLs []string

	// AttemptTimeout bounds a single upstream call. Zero means 30s.
	AttemptTimeout time.Duration

	// RequestBudget caps the whole fallback loop. Zero disables the cap.
	RequestBudget time.Duration

	// Production suppresses internal error detail in client messages.
	Production bool
}

// DefaultAttemptTimeout is used when Settings.AttemptTimeout is zero.
const DefaultAttemptTimeout = 30 * time.Second

// Resolution is the resolver output for one request.
type Resolution struct {
	Model      string
	Candidates []string
}

// Outcome is the result of one forward attempt.
type Outcome int

const (
	// OutcomeSuccess means the upstream returned a completion payload.
	OutcomeSuccess Outcome = iota
	// OutcomeRetryable means the upstream did not know the model or
	// version at this address; the next candidate may still succeed.
	OutcomeRetryable
	// OutcomeTerminal means the failure would recur at every candidate.
	OutcomeTerminal
)

// String returns the metric and log label for o.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "not_found"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Attempt records one try against one candidate. It lives only for the
// duration of the request.
type Attempt struct {
	Candidate string
	Model     string
	Outcome   Outcome
	Err       error
	Duration  time.Duration
}

// Result is a successful forward.
type Result struct {
	// Payload is the upstream response body, unmodified.
	Payload json.RawMessage

	// Model is the model that answered.
	Model string

	// Candidate is the base address that answered.
	Candidate string

	// Attempts lists every try in order, the successful one last.
	Attempts []Attempt
}
