package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"vhbc/gateway/pkg/gateway"
	"vhbc/gateway/pkg/proxy"
)

// Pipeline runs a raw chat request through validation and forwarding.
// *gateway.Gateway implements it.
type Pipeline interface {
	Handle(ctx context.Context, raw []byte) (*gateway.Result, error)
	Classify(err error) *gateway.ClassifiedError
}

// RequestRecorder receives one observation per chat request.
type RequestRecorder interface {
	RecordRequest(status int, kind string, duration time.Duration)
}

// ChatHandler serves POST /api/chat.
type ChatHandler struct {
	pipeline    Pipeline
	maxBodySize int64
	recorder    RequestRecorder
	logger      *slog.Logger
}

// ChatOption configures a ChatHandler.
type ChatOption func(*ChatHandler)

// WithMaxBodySize sets the request body limit.
func WithMaxBodySize(n int64) ChatOption {
	return func(h *ChatHandler) { h.maxBodySize = n }
}

// WithRecorder sets the per-request recorder.
func WithRecorder(r RequestRecorder) ChatOption {
	return func(h *ChatHandler) { h.recorder = r }
}

// NewChatHandler creates a chat handler over pipeline.
func NewChatHandler(pipeline Pipeline, opts ...ChatOption) *ChatHandler {
	h := &ChatHandler{
		pipeline:    pipeline,
		maxBodySize: proxy.MaxRequestBodySize,
		logger:      slog.Default().With("component", "handlers.chat"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	raw, err := proxy.ReadBody(w, r, h.maxBodySize)
	if err != nil {
		h.fail(ctx, w, err, start)
		return
	}

	result, err := h.pipeline.Handle(ctx, raw)
	if err != nil {
		h.fail(ctx, w, err, start)
		return
	}

	h.logger.InfoContext(ctx, "chat request forwarded",
		"model", result.Model,
		"candidate", result.Candidate,
		"attempts", len(result.Attempts),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := proxy.WritePayload(w, result.Payload); err != nil {
		h.logger.WarnContext(ctx, "failed to write response", "error", err)
	}
	h.record(http.StatusOK, "", start)
}

func (h *ChatHandler) fail(ctx context.Context, w http.ResponseWriter, err error, start time.Time) {
	status, body := proxy.HandleError(h.pipeline, err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "chat request failed",
		"status", status,
		"kind", body.Kind,
		"error", err,
	)

	if werr := proxy.WriteErrorResponse(w, status, body); werr != nil {
		h.logger.WarnContext(ctx, "failed to write error response", "error", werr)
	}
	h.record(status, body.Kind, start)
}

func (h *ChatHandler) record(status int, kind string, start time.Time) {
	if h.recorder != nil {
		h.recorder.RecordRequest(status, kind, time.Since(start))
	}
}
