package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address used to identify the caller. With trustProxy
// the left-most X-Forwarded-For entry wins; otherwise the socket address is
// used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
