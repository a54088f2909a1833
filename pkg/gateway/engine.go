package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"vhbc/gateway/pkg/upstream"
)

// Upstream performs one generateContent call.
type Upstream interface {
	GenerateContent(ctx context.Context, base, model, key string, req *upstream.GenerateRequest) ([]byte, error)
}

// KeySource supplies the upstream API key. An empty key with a nil error
// means no key is configured.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// Observer receives per-attempt measurements.
type Observer interface {
	ObserveAttempt(candidate string, outcome string, d time.Duration)
	ObserveFallback()
}

// Tracer starts spans. Both OpenTelemetry tracers and the telemetry
// package wrapper satisfy it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// state is the fallback loop state.
type state int

const (
	stateTrying state = iota
	stateSucceeded
	stateFailed
)

// Engine forwards a request to each candidate in order until one succeeds,
// one fails terminally, or the list runs out.
type Engine struct {
	client     Upstream
	keys       KeySource
	classifier *Classifier
	settings   Settings
	observer   Observer
	tracer     Tracer
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithObserver sets the attempt observer.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithTracer sets the tracer used for forward and attempt spans.
func WithTracer(t Tracer) EngineOption {
	return func(e *Engine) { e.tracer = t }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine.
func NewEngine(client Upstream, keys KeySource, s Settings, opts ...EngineOption) *Engine {
	if s.AttemptTimeout <= 0 {
		s.AttemptTimeout = DefaultAttemptTimeout
	}
	e := &Engine{
		client:     client,
		keys:       keys,
		classifier: NewClassifier(s.Production),
		settings:   s,
		tracer:     noop.NewTracerProvider().Tracer("gateway"),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Forward delivers req to the candidates in res. It returns the first
// successful payload, or a *ClassifiedError for the terminal failure. Only
// an upstream 404 moves on to the next candidate; timeouts and every other
// failure stop the loop. Attempts are strictly sequential.
func (e *Engine) Forward(ctx context.Context, req *ChatRequest, res Resolution) (*Result, error) {
	key, err := e.apiKey(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Candidates) == 0 {
		return nil, configurationError(MsgNoCandidates)
	}

	if e.settings.RequestBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.settings.RequestBudget)
		defer cancel()
	}

	ctx, span := e.tracer.Start(ctx, "gateway.forward", trace.WithAttributes(
		attribute.String("gateway.model", res.Model),
		attribute.Int("gateway.candidates", len(res.Candidates)),
	))
	defer span.End()

	payload := upstream.NewGenerateRequest(req.Contents)
	result := &Result{Model: res.Model}

	var last error
	st := stateTrying
	for i := 0; st == stateTrying; {
		if i == len(res.Candidates) {
			st = stateFailed
			break
		}

		att := e.attempt(ctx, res.Candidates[i], res.Model, key, payload, result)
		result.Attempts = append(result.Attempts, att)

		switch att.Outcome {
		case OutcomeSuccess:
			result.Candidate = att.Candidate
			st = stateSucceeded
		case OutcomeRetryable:
			last = att.Err
			i++
			if i < len(res.Candidates) {
				if e.observer != nil {
					e.observer.ObserveFallback()
				}
				e.logger.InfoContext(ctx, "upstream model not found, trying next candidate",
					"candidate", att.Candidate,
					"model", att.Model,
					"next", res.Candidates[i],
				)
			}
		default:
			last = att.Err
			st = stateFailed
		}
	}

	span.SetAttributes(attribute.Int("gateway.attempts", len(result.Attempts)))

	if st == stateSucceeded {
		span.SetAttributes(attribute.String("gateway.candidate", result.Candidate))
		return result, nil
	}

	ce := e.classifier.Classify(last)
	span.SetStatus(codes.Error, string(ce.Kind))
	e.logger.WarnContext(ctx, "forward failed",
		"kind", ce.Kind,
		"status", ce.Status,
		"attempts", len(result.Attempts),
		"error", last,
	)
	return nil, ce
}

// attempt makes one bounded call and classifies its outcome. On success the
// payload is stored in result.
func (e *Engine) attempt(ctx context.Context, candidate, model, key string, payload *upstream.GenerateRequest, result *Result) Attempt {
	ctx, span := e.tracer.Start(ctx, "gateway.attempt", trace.WithAttributes(
		attribute.String("gateway.candidate", candidate),
		attribute.String("gateway.model", model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.settings.AttemptTimeout)
	defer cancel()

	start := time.Now()
	body, err := e.client.GenerateContent(ctx, candidate, model, key, payload)
	att := Attempt{
		Candidate: candidate,
		Model:     model,
		Err:       err,
		Duration:  time.Since(start),
	}

	var se *upstream.StatusError
	switch {
	case err == nil:
		att.Outcome = OutcomeSuccess
		result.Payload = body
	case errors.As(err, &se) && se.NotFound():
		att.Outcome = OutcomeRetryable
	default:
		att.Outcome = OutcomeTerminal
	}

	span.SetAttributes(attribute.String("gateway.outcome", att.Outcome.String()))
	if att.Outcome != OutcomeSuccess {
		span.SetStatus(codes.Error, att.Outcome.String())
	}
	if e.observer != nil {
		e.observer.ObserveAttempt(candidate, att.Outcome.String(), att.Duration)
	}
	e.logger.DebugContext(ctx, "upstream attempt finished",
		"candidate", candidate,
		"model", model,
		"outcome", att.Outcome.String(),
		"duration_ms", att.Duration.Milliseconds(),
	)
	return att
}

// apiKey fetches the key, turning absence into a configuration error.
func (e *Engine) apiKey(ctx context.Context) (string, error) {
	if e.keys == nil {
		return "", configurationError(MsgAPIKeyMissing)
	}
	key, err := e.keys.APIKey(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to load API key", "error", err)
		return "", configurationError(MsgAPIKeyMissing)
	}
	if key == "" {
		return "", configurationError(MsgAPIKeyMissing)
	}
	return key, nil
}

// StaticKey is a KeySource holding a fixed key.
type StaticKey string

// APIKey returns the key.
func (k StaticKey) APIKey(context.Context) (string, error) {
	return string(k), nil
}
