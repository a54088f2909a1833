package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantFields []string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name: "missing api key is allowed",
			modify: func(c *Config) {
				c.Upstream.APIKey = ""
			},
		},
		{
			name: "empty listen address",
			modify: func(c *Config) {
				c.Server.ListenAddress = ""
			},
			wantFields: []string{"server.listen_address"},
		},
		{
			name: "base url with bad scheme",
			modify: func(c *Config) {
				c.Upstream.BaseURL = "ftp://example.com"
			},
			wantFields: []string{"upstream.base_url"},
		},
		{
			name: "non-positive attempt timeout",
			modify: func(c *Config) {
				c.Upstream.AttemptTimeout = -time.Second
			},
			wantFields: []string{"upstream.attempt_timeout"},
		},
		{
			name: "watch without key file",
			modify: func(c *Config) {
				c.Upstream.WatchKeyFile = true
			},
			wantFields: []string{"upstream.watch_key_file"},
		},
		{
			name: "bad sqlite driver",
			modify: func(c *Config) {
				c.RateLimit.Storage.Backend = "sqlite"
				c.RateLimit.Storage.SQLite.Driver = "postgres"
			},
			wantFields: []string{"rate_limit.storage.sqlite.driver"},
		},
		{
			name: "bad cleanup schedule",
			modify: func(c *Config) {
				c.RateLimit.Storage.CleanupSchedule = "every now and then"
			},
			wantFields: []string{"rate_limit.storage.cleanup_schedule"},
		},
		{
			name: "disabled rate limit skips its checks",
			modify: func(c *Config) {
				c.RateLimit.Enabled = false
				c.RateLimit.MaxRequests = -1
			},
		},
		{
			name: "tracing without endpoint",
			modify: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
			},
			wantFields: []string{"telemetry.tracing.endpoint"},
		},
		{
			name: "unsorted buckets",
			modify: func(c *Config) {
				c.Telemetry.Metrics.RequestDurationBuckets = []float64{1, 0.5}
			},
			wantFields: []string{"telemetry.metrics.request_duration_buckets"},
		},
		{
			name: "tls without files",
			modify: func(c *Config) {
				c.Security.TLS.Enabled = true
			},
			wantFields: []string{"security.tls.cert_file", "security.tls.key_file"},
		},
		{
			name: "multiple errors are collected",
			modify: func(c *Config) {
				c.Environment = "qa"
				c.Telemetry.Logging.Format = "xml"
			},
			wantFields: []string{"environment", "telemetry.logging.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if len(verr.Errors) != len(tt.wantFields) {
				t.Fatalf("got %d errors, want %d: %v", len(verr.Errors), len(tt.wantFields), verr)
			}
			for i, field := range tt.wantFields {
				if verr.Errors[i].Field != field {
					t.Errorf("error[%d].Field = %q, want %q", i, verr.Errors[i].Field, field)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q", got)
	}
}
