package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vhbc/gateway/pkg/upstream"
)

func TestCheckKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "AIzaGoodKey" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"API key not valid"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"models":[
			{"name":"models/gemini-pro","displayName":"Gemini Pro","supportedGenerationMethods":["generateContent","countTokens"]},
			{"name":"models/embedding-001","displayName":"Embedding","supportedGenerationMethods":["embedContent"]}
		]}`)
	}))
	defer server.Close()

	client := upstream.NewClient(server.Client())

	tests := []struct {
		name       string
		key        string
		wantModels []string
		wantStatus int
		wantErr    error
	}{
		{name: "valid key", key: "AIzaGoodKey", wantModels: []string{"models/gemini-pro"}},
		{name: "rejected key", key: "AIzaBadKey", wantStatus: http.StatusBadRequest},
		{name: "missing key", key: "", wantErr: ErrNoKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := CheckKey(context.Background(), client, server.URL+"/v1beta", tt.key)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CheckKey() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantStatus != 0 {
				var se *upstream.StatusError
				if !errors.As(err, &se) || se.StatusCode != tt.wantStatus {
					t.Fatalf("CheckKey() error = %v, want status %d", err, tt.wantStatus)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckKey() unexpected error: %v", err)
			}

			var got []string
			for _, m := range report.Models {
				got = append(got, m.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantModels, ",") {
				t.Errorf("models = %v, want %v", got, tt.wantModels)
			}
			if report.KeyPrefix != "AIza***" {
				t.Errorf("KeyPrefix = %q, want AIza***", report.KeyPrefix)
			}
		})
	}
}

func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets(nil, nil)
	if len(targets) != 6 {
		t.Fatalf("len(targets) = %d, want 6", len(targets))
	}
	if targets[0] != (Target{Base: upstream.GoogleV1, Model: "gemini-pro"}) {
		t.Errorf("targets[0] = %+v", targets[0])
	}
	if targets[3] != (Target{Base: upstream.GoogleV1Beta, Model: "gemini-pro"}) {
		t.Errorf("targets[3] = %+v", targets[3])
	}
}

func TestProber_Run(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		body  map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Unlock()

		switch {
		case strings.Contains(r.URL.Path, "gemini-1.5-flash") && strings.HasPrefix(r.URL.Path, "/v1beta/"):
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Hello there"}]}}]}`)
		case strings.Contains(r.URL.Path, "gemini-pro"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":{"message":"permission denied"}}`)
		}
	}))
	defer server.Close()

	prober := NewProber(upstream.NewClient(server.Client()), "", time.Second)
	targets := DefaultTargets([]string{server.URL + "/v1", server.URL + "/v1beta"}, nil)

	var seen int
	results, ok, err := prober.Run(context.Background(), "k", targets, func(int, ProbeResult) { seen++ })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ok == nil {
		t.Fatal("Run() found no working target")
	}
	if ok.Model != "gemini-1.5-flash" || ok.Text != "Hello there" {
		t.Errorf("success = %+v", ok)
	}

	// v1 x3, then v1beta gemini-pro, then v1beta gemini-1.5-flash.
	if len(results) != 5 || seen != 5 {
		t.Fatalf("results = %d, callbacks = %d, want 5", len(results), seen)
	}
	if results[0].Status != http.StatusNotFound || results[0].Message != "Not found" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Status != http.StatusForbidden || results[1].Message != "permission denied" {
		t.Errorf("results[1] = %+v", results[1])
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 5 {
		t.Errorf("upstream calls = %d, want 5", len(paths))
	}
	contents, _ := body["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", body["contents"])
	}
	if !strings.Contains(mustJSON(t, contents[0]), DefaultProbePrompt) {
		t.Errorf("prompt not sent: %v", contents[0])
	}
	if _, ok := body["generationConfig"]; ok {
		t.Errorf("prompt request carries generationConfig: %v", body)
	}
}

func TestProber_Run_NoneAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	prober := NewProber(upstream.NewClient(server.Client()), "ping", time.Second)
	results, ok, err := prober.Run(context.Background(), "k", DefaultTargets([]string{server.URL}, nil), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ok != nil {
		t.Errorf("Run() success = %+v, want nil", ok)
	}
	if len(results) != len(DefaultProbeModels) {
		t.Errorf("results = %d, want %d", len(results), len(DefaultProbeModels))
	}
}

func TestProber_Run_MissingKey(t *testing.T) {
	prober := NewProber(upstream.NewClient(nil), "", 0)
	if _, _, err := prober.Run(context.Background(), "", DefaultTargets(nil, nil), nil); !errors.Is(err, ErrNoKey) {
		t.Errorf("Run() error = %v, want ErrNoKey", err)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
