// Package fakegemini runs an in-process stand-in for the Gemini REST API.
// Tests register canned responses per path and inspect the calls that
// arrived.
package fakegemini

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
	Key    string
	Body   []byte
}

// Response is a canned reply.
type Response struct {
	StatusCode int
	Body       any
	Delay      time.Duration
	Headers    map[string]string
}

// Server is a fake Gemini endpoint. Unregistered paths answer 404 in the
// Gemini error shape.
type Server struct {
	server    *httptest.Server
	responses map[string]Response
	calls     []Call
	mu        sync.Mutex
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{responses: make(map[string]Response)}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the server's root URL.
func (s *Server) URL() string { return s.server.URL }

// Client returns an HTTP client wired to the server.
func (s *Server) Client() *http.Client { return s.server.Client() }

// Close shuts the server down.
func (s *Server) Close() { s.server.Close() }

// Set registers the response for path, for example
// "/v1/models/gemini-pro:generateContent".
func (s *Server) Set(path string, r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = r
}

// Calls returns a copy of every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Paths returns the path of every request received so far.
func (s *Server) Paths() []string {
	calls := s.Calls()
	paths := make([]string, len(calls))
	for i, c := range calls {
		paths[i] = c.Path
	}
	return paths
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Key:    r.URL.Query().Get("key"),
		Body:   body,
	})
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		resp = Error(http.StatusNotFound, "models/unknown is not found for API version")
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	switch v := resp.Body.(type) {
	case nil:
	case string:
		_, _ = io.WriteString(w, v)
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Text returns a 200 generateContent reply whose first candidate says text.
func Text(text string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Body: map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			}},
		},
	}
}

// Error returns a reply in Google's error envelope.
func Error(status int, message string) Response {
	return Response{
		StatusCode: status,
		Body: map[string]any{
			"error": map[string]any{
				"code":    status,
				"message": message,
				"status":  statusName(status),
			},
		},
	}
}

// Slow returns a successful reply delayed by d.
func Slow(d time.Duration) Response {
	r := Text("late")
	r.Delay = d
	return r
}

// Models returns a models.list reply naming each model with the
// generateContent method.
func Models(names ...string) Response {
	models := make([]map[string]any, len(names))
	for i, n := range names {
		models[i] = map[string]any{
			"name":                       "models/" + n,
			"supportedGenerationMethods": []string{"generateContent"},
		}
	}
	return Response{StatusCode: http.StatusOK, Body: map[string]any{"models": models}}
}

func statusName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_ARGUMENT"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "PERMISSION_DENIED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RESOURCE_EXHAUSTED"
	default:
		return "INTERNAL"
	}
}
