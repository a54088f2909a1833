package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"vhbc/gateway/pkg/proxy"
)

// DefaultBanner is the message served on the root endpoint.
const DefaultBanner = "VHBC API Server is running"

// RootResponse is the body of GET /.
type RootResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// RootHandler answers GET / with a static status document.
func RootHandler(banner string) http.HandlerFunc {
	if banner == "" {
		banner = DefaultBanner
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_ = proxy.WriteJSONResponse(w, http.StatusOK, RootResponse{
			Status:    "ok",
			Message:   banner,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

// NotFoundHandler answers every unmatched route.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = proxy.WriteErrorResponse(w, http.StatusNotFound, proxy.NotFoundBody)
	}
}

// Methods restricts next to the listed methods and answers anything else
// with a JSON 405. GET also admits HEAD.
func Methods(next http.Handler, methods ...string) http.Handler {
	allowed := slices.Clone(methods)
	if slices.Contains(allowed, http.MethodGet) && !slices.Contains(allowed, http.MethodHead) {
		allowed = append(allowed, http.MethodHead)
	}
	allowHeader := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(allowed, r.Method) {
			w.Header().Set("Allow", allowHeader)
			_ = proxy.WriteErrorResponse(w, http.StatusMethodNotAllowed, proxy.MethodNotAllowedBody)
			return
		}
		next.ServeHTTP(w, r)
	})
}
