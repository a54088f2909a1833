package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"vhbc/gateway/pkg/config"
	"vhbc/gateway/pkg/telemetry/logging"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	prev := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := RequestIDMiddleware(LoggingMiddleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := logging.GetClientIP(r.Context()); got != "203.0.113.9" {
			t.Errorf("client IP in context = %q", got)
		}
		w.WriteHeader(http.StatusBadGateway)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var completed map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["msg"] == "request completed" {
			completed = entry
		}
	}
	if completed == nil {
		t.Fatalf("no completion line in %s", buf.String())
	}

	if completed["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", completed["level"])
	}
	if completed["status"] != float64(http.StatusBadGateway) {
		t.Errorf("status = %v, want 502", completed["status"])
	}
	if completed["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", completed["request_id"])
	}
	if completed["client_ip"] != "203.0.113.9" {
		t.Errorf("client_ip = %v", completed["client_ip"])
	}
}
