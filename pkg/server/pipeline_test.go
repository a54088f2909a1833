package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vhbc/gateway/internal/fakegemini"
	"vhbc/gateway/pkg/config"
	"vhbc/gateway/pkg/gateway"
	"vhbc/gateway/pkg/proxy"
	"vhbc/gateway/pkg/upstream"
)

const (
	v1Path     = "/v1/models/gemini-pro:generateContent"
	v1betaPath = "/v1beta/models/gemini-pro:generateContent"
)

func newPipelineHandler(t *testing.T, fake *fakegemini.Server) http.Handler {
	t.Helper()

	settings := gateway.Settings{
		DefaultModel:     "gemini-pro",
		FallbackBaseURLs: []string{fake.URL() + "/v1", fake.URL() + "/v1beta"},
		AttemptTimeout:   100 * time.Millisecond,
	}
	engine := gateway.NewEngine(upstream.NewClient(fake.Client()), gateway.StaticKey("AIza-test"), settings)

	srv := NewServer(config.NewDefaultConfig(), Options{
		Gateway: gateway.New(gateway.NewResolver(settings), engine),
	})
	return srv.Handler()
}

func TestServer_ChatAgainstFakeUpstream(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*fakegemini.Server)
		wantStatus int
		wantKind   string
		wantInBody string
		wantPaths  []string
	}{
		{
			name: "first candidate answers",
			setup: func(f *fakegemini.Server) {
				f.Set(v1Path, fakegemini.Text("from v1"))
			},
			wantStatus: http.StatusOK,
			wantInBody: "from v1",
			wantPaths:  []string{v1Path},
		},
		{
			name: "not found falls back",
			setup: func(f *fakegemini.Server) {
				f.Set(v1betaPath, fakegemini.Text("from v1beta"))
			},
			wantStatus: http.StatusOK,
			wantInBody: "from v1beta",
			wantPaths:  []string{v1Path, v1betaPath},
		},
		{
			name: "auth failure is terminal",
			setup: func(f *fakegemini.Server) {
				f.Set(v1Path, fakegemini.Error(http.StatusUnauthorized, "API key not valid"))
				f.Set(v1betaPath, fakegemini.Text("unreachable"))
			},
			wantStatus: http.StatusUnauthorized,
			wantKind:   string(gateway.KindUpstream),
			wantInBody: "API key not valid",
			wantPaths:  []string{v1Path},
		},
		{
			name: "quota failure is terminal",
			setup: func(f *fakegemini.Server) {
				f.Set(v1Path, fakegemini.Error(http.StatusTooManyRequests, "Quota exceeded"))
			},
			wantStatus: http.StatusTooManyRequests,
			wantKind:   string(gateway.KindUpstream),
			wantInBody: "Quota exceeded",
			wantPaths:  []string{v1Path},
		},
		{
			name: "timeout is terminal",
			setup: func(f *fakegemini.Server) {
				f.Set(v1Path, fakegemini.Slow(2*time.Second))
				f.Set(v1betaPath, fakegemini.Text("unreachable"))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   string(gateway.KindServiceUnavailable),
			wantPaths:  []string{v1Path},
		},
		{
			name:       "every candidate missing",
			setup:      func(*fakegemini.Server) {},
			wantStatus: http.StatusNotFound,
			wantKind:   string(gateway.KindUpstream),
			wantPaths:  []string{v1Path, v1betaPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := fakegemini.New()
			defer fake.Close()
			tt.setup(fake)

			h := newPipelineHandler(t, fake)
			req := httptest.NewRequest(http.MethodPost, "/api/chat",
				strings.NewReader(`{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}`))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantKind != "" {
				var body proxy.ErrorBody
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if body.Kind != tt.wantKind {
					t.Errorf("kind = %q, want %q", body.Kind, tt.wantKind)
				}
			}
			if !strings.Contains(w.Body.String(), tt.wantInBody) {
				t.Errorf("body %s does not contain %q", w.Body.String(), tt.wantInBody)
			}

			paths := fake.Paths()
			if strings.Join(paths, ",") != strings.Join(tt.wantPaths, ",") {
				t.Errorf("upstream paths = %v, want %v", paths, tt.wantPaths)
			}
			for _, c := range fake.Calls() {
				if c.Key != "AIza-test" {
					t.Errorf("key = %q, want AIza-test", c.Key)
				}
			}
		})
	}
}
