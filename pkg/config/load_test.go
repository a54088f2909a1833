package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  listen_address: "0.0.0.0:8080"
  read_timeout: 60s
  cors:
    allowed_origins: ["https://chat.example.com"]
    allow_all: false
upstream:
  default_model: "gemini-1.5-pro"
  base_url: "https://proxy.example.com/v1"
  attempt_timeout: 10s
rate_limit:
  max_requests: 20
  storage:
    backend: sqlite
    sqlite:
      path: "./rl.db"
      driver: sqlite3
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.IsProduction() {
		t.Errorf("expected production environment, got %q", cfg.Environment)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:8080", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout 60s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.CORS.AllowAll {
		t.Error("explicit allow_all: false was overwritten by default")
	}
	if !cfg.Server.CORS.AllowLocalhost {
		t.Error("allow_localhost default lost")
	}
	if cfg.Upstream.DefaultModel != "gemini-1.5-pro" {
		t.Errorf("expected default model gemini-1.5-pro, got %q", cfg.Upstream.DefaultModel)
	}
	if cfg.Upstream.AttemptTimeout != 10*time.Second {
		t.Errorf("expected attempt timeout 10s, got %v", cfg.Upstream.AttemptTimeout)
	}
	if cfg.RateLimit.Storage.SQLite.Driver != "sqlite3" {
		t.Errorf("expected driver sqlite3, got %q", cfg.RateLimit.Storage.SQLite.Driver)
	}
	if cfg.RateLimit.Window != DefaultRateLimitWindow {
		t.Errorf("expected default window, got %v", cfg.RateLimit.Window)
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("expected text format, got %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "server: [unclosed",
			wantErr: "failed to parse",
		},
		{
			name:    "invalid backend",
			content: "rate_limit:\n  storage:\n    backend: redis\n",
			wantErr: "rate_limit.storage.backend",
		},
		{
			name:    "invalid environment",
			content: "environment: staging\n",
			wantErr: "environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: ":4000"
upstream:
  default_model: "from-file"
`)

	t.Setenv("GEMINI_API_KEY", "secret-key")
	t.Setenv("GEMINI_MODEL", "from-legacy-env")
	t.Setenv("GATEWAY_UPSTREAM_DEFAULT_MODEL", "from-gateway-env")
	t.Setenv("PORT", "5000")
	t.Setenv("GATEWAY_RATE_LIMIT_MAX_REQUESTS", "7")
	t.Setenv("GATEWAY_RATE_LIMIT_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Upstream.APIKey != "secret-key" {
		t.Errorf("expected api key from GEMINI_API_KEY, got %q", cfg.Upstream.APIKey)
	}
	if cfg.Upstream.DefaultModel != "from-gateway-env" {
		t.Errorf("GATEWAY_* should win over GEMINI_MODEL, got %q", cfg.Upstream.DefaultModel)
	}
	if cfg.Server.ListenAddress != ":5000" {
		t.Errorf("expected listen address :5000 from PORT, got %q", cfg.Server.ListenAddress)
	}
	if cfg.RateLimit.MaxRequests != 7 {
		t.Errorf("expected max requests 7, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limiting disabled")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("GEMINI_API_BASE", "https://proxy.example.com/v1beta")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides(\"\") error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production from NODE_ENV, got %q", cfg.Environment)
	}
	if cfg.Upstream.BaseURL != "https://proxy.example.com/v1beta" {
		t.Errorf("expected base URL from GEMINI_API_BASE, got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.APIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.Upstream.APIKey)
	}
}

func TestLoadFromEnv_InvalidOverride(t *testing.T) {
	t.Setenv("GATEWAY_TELEMETRY_LOGGING_LEVEL", "verbose")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Errors[0].Field != "telemetry.logging.level" {
		t.Errorf("expected telemetry.logging.level, got %q", verr.Errors[0].Field)
	}
}

func TestLoadFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("GATEWAY_UPSTREAM_ATTEMPT_TIMEOUT", "soon")
	t.Setenv("GATEWAY_RATE_LIMIT_MAX_REQUESTS", "many")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Upstream.AttemptTimeout != DefaultAttemptTimeout {
		t.Errorf("malformed duration should be ignored, got %v", cfg.Upstream.AttemptTimeout)
	}
	if cfg.RateLimit.MaxRequests != DefaultRateLimitMaxRequests {
		t.Errorf("malformed int should be ignored, got %d", cfg.RateLimit.MaxRequests)
	}
}
