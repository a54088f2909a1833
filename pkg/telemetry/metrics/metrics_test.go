package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"vhbc/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		Subsystem:              "gw",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestNewCollector_Defaults(t *testing.T) {
	c := NewCollector(config.MetricsConfig{Enabled: true}, nil)
	if c.Registry() == nil {
		t.Fatal("expected a registry")
	}
	if c.config.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("namespace = %q", c.config.Namespace)
	}

	c.ObserveFallback()
	if got := testutil.ToFloat64(c.upstreamMetrics.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name   string
		status int
		kind   string
		label  string
	}{
		{"success", 200, "", "none"},
		{"validation", 400, "validation_error", "validation_error"},
		{"upstream", 404, "upstream_error", "upstream_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.RecordRequest(tt.status, tt.kind, 150*time.Millisecond)
			counter := c.requestMetrics.requestsTotal.WithLabelValues(strconv.Itoa(tt.status), tt.label)
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Errorf("requests_total = %v, want 1", got)
			}
		})
	}
}

func TestCollector_ObserveAttempt(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.ObserveAttempt("https://a/v1", "not_found", 20*time.Millisecond)
	c.ObserveAttempt("https://a/v1beta", "success", 300*time.Millisecond)
	c.ObserveFallback()

	if got := testutil.ToFloat64(c.upstreamMetrics.attempts.WithLabelValues("https://a/v1", "not_found")); got != 1 {
		t.Errorf("not_found attempts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.upstreamMetrics.attempts.WithLabelValues("https://a/v1beta", "success")); got != 1 {
		t.Errorf("success attempts = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.upstreamMetrics.latency); got != 2 {
		t.Errorf("latency series = %d, want 2", got)
	}
	if got := testutil.ToFloat64(c.upstreamMetrics.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestCollector_RateLimit(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordRateLimitRejection()
	c.RecordRateLimitRejection()
	c.RecordRateLimitStoreError("increment")
	c.SetRateLimitKeys(7)

	if got := testutil.ToFloat64(c.rateLimitMetrics.rejections); got != 2 {
		t.Errorf("rejections = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.rateLimitMetrics.storeErrors.WithLabelValues("increment")); got != 1 {
		t.Errorf("store errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.rateLimitMetrics.keys); got != 7 {
		t.Errorf("tracked clients = %v, want 7", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := NewCollector(cfg, prometheus.NewRegistry())

	c.RecordRequest(200, "", time.Second)
	c.ObserveAttempt("x", "success", time.Second)
	c.ObserveFallback()
	c.RecordRateLimitRejection()

	if got := testutil.CollectAndCount(c.requestMetrics.requestsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d request series", got)
	}
	if got := testutil.ToFloat64(c.upstreamMetrics.fallbacks); got != 0 {
		t.Errorf("disabled collector recorded fallbacks = %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())
	c.ObserveAttempt("https://a/v1", "success", time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "test_gw_upstream_attempts_total") {
		t.Errorf("exposition missing upstream_attempts_total:\n%s", body)
	}
}
