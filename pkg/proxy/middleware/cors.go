package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"vhbc/gateway/pkg/config"
)

// CORSMiddleware adds Cross-Origin Resource Sharing headers and answers
// preflight OPTIONS requests with 204.
//
// An origin is allowed when it is in AllowedOrigins, when AllowLocalhost is
// set and it mentions localhost or 127.0.0.1, or when AllowAll is set.
// Allowed origins are echoed back; requests without an Origin header get no
// Access-Control-Allow-Origin at all.
//
// Example usage:
//
//	handler = CORSMiddleware(cfg.Server.CORS)(handler)
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			allowed := origin != "" && OriginAllowed(cfg, origin)
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Trace-ID")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					if methods != "" {
						w.Header().Set("Access-Control-Allow-Methods", methods)
					}
					if headers != "" {
						w.Header().Set("Access-Control-Allow-Headers", headers)
					}
					if cfg.MaxAge > 0 {
						w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OriginAllowed applies the origin policy to a non-empty origin.
func OriginAllowed(cfg config.CORSConfig, origin string) bool {
	if slices.Contains(cfg.AllowedOrigins, origin) {
		return true
	}
	if cfg.AllowLocalhost && (strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")) {
		return true
	}
	return cfg.AllowAll
}
