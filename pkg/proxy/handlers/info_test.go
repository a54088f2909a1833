package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vhbc/gateway/pkg/proxy"
)

func TestRootHandler(t *testing.T) {
	w := httptest.NewRecorder()
	RootHandler("")(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got RootResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Status != "ok" || got.Message != DefaultBanner {
		t.Errorf("body = %+v", got)
	}
	if _, err := time.Parse(time.RFC3339Nano, got.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", got.Timestamp, err)
	}
}

func TestNotFoundHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NotFoundHandler()(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var got proxy.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got != proxy.NotFoundBody {
		t.Errorf("body = %+v, want %+v", got, proxy.NotFoundBody)
	}
}

func TestMethods(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		wantStatus int
		wantAllow  string
	}{
		{name: "post allowed", allowed: []string{http.MethodPost}, method: http.MethodPost, wantStatus: http.StatusNoContent},
		{name: "get rejected on post route", allowed: []string{http.MethodPost}, method: http.MethodGet, wantStatus: http.StatusMethodNotAllowed, wantAllow: "POST"},
		{name: "head implied by get", allowed: []string{http.MethodGet}, method: http.MethodHead, wantStatus: http.StatusNoContent},
		{name: "delete rejected on get route", allowed: []string{http.MethodGet}, method: http.MethodDelete, wantStatus: http.StatusMethodNotAllowed, wantAllow: "GET, HEAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Methods(ok, tt.allowed...).ServeHTTP(w, httptest.NewRequest(tt.method, "/x", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Allow"); got != tt.wantAllow {
				t.Errorf("Allow = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}
