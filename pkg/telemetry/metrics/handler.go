package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
			ErrorLog:          slogErrorLogger{},
		},
	)
}

// slogErrorLogger adapts slog to promhttp.Logger.
type slogErrorLogger struct{}

func (slogErrorLogger) Println(v ...any) {
	slog.Error("metrics exposition failed", "detail", v)
}
