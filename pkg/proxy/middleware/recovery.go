package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"vhbc/gateway/pkg/proxy"
)

// RecoveryMiddleware recovers from panics in downstream handlers and answers
// with a 500 internal_error body. The panic value is only sent to the client
// when production is false; it is always logged with the stack.
//
// Example usage:
//
//	handler = RecoveryMiddleware(cfg.IsProduction())(handler)
func RecoveryMiddleware(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				detail := fmt.Sprint(rec)
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", detail,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = proxy.WriteErrorResponse(w, http.StatusInternalServerError,
					proxy.InternalErrorBody(detail, production))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
