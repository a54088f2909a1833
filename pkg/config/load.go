package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for structured environment overrides.
const EnvPrefix = "GATEWAY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. An empty path skips the file entirely and
// builds the configuration from defaults and the environment alone.
//
// The loading sequence is:
// 1. Load YAML from file (if any)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv builds configuration from defaults plus environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// The short deployment names (GEMINI_API_KEY, PORT, NODE_ENV, ...) are read
// first so that the structured GATEWAY_* names win when both are set.
func applyEnvOverrides(cfg *Config) {
	applyDeploymentEnv(cfg)

	if val := env("ENVIRONMENT"); val != "" {
		cfg.Environment = val
	}

	// Server overrides
	if val := env("SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	setDuration(&cfg.Server.ReadTimeout, env("SERVER_READ_TIMEOUT"))
	setDuration(&cfg.Server.WriteTimeout, env("SERVER_WRITE_TIMEOUT"))
	setDuration(&cfg.Server.IdleTimeout, env("SERVER_IDLE_TIMEOUT"))
	setDuration(&cfg.Server.ShutdownTimeout, env("SERVER_SHUTDOWN_TIMEOUT"))
	if val := env("SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}
	setBool(&cfg.Server.CORS.Enabled, env("SERVER_CORS_ENABLED"))
	setBool(&cfg.Server.CORS.AllowAll, env("SERVER_CORS_ALLOW_ALL"))

	// Upstream overrides
	if val := env("UPSTREAM_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := env("UPSTREAM_API_KEY_FILE"); val != "" {
		cfg.Upstream.APIKeyFile = val
	}
	if val := env("UPSTREAM_DEFAULT_MODEL"); val != "" {
		cfg.Upstream.DefaultModel = val
	}
	if val := env("UPSTREAM_BASE_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	setDuration(&cfg.Upstream.AttemptTimeout, env("UPSTREAM_ATTEMPT_TIMEOUT"))
	setDuration(&cfg.Upstream.RequestBudget, env("UPSTREAM_REQUEST_BUDGET"))

	// Rate limit overrides
	setBool(&cfg.RateLimit.Enabled, env("RATE_LIMIT_ENABLED"))
	setDuration(&cfg.RateLimit.Window, env("RATE_LIMIT_WINDOW"))
	if val := env("RATE_LIMIT_MAX_REQUESTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.MaxRequests = i
		}
	}
	if val := env("RATE_LIMIT_STORAGE_BACKEND"); val != "" {
		cfg.RateLimit.Storage.Backend = val
	}
	if val := env("RATE_LIMIT_STORAGE_SQLITE_PATH"); val != "" {
		cfg.RateLimit.Storage.SQLite.Path = val
	}
	if val := env("RATE_LIMIT_STORAGE_SQLITE_DRIVER"); val != "" {
		cfg.RateLimit.Storage.SQLite.Driver = val
	}

	// Telemetry overrides
	if val := env("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := env("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	setBool(&cfg.Telemetry.Metrics.Enabled, env("TELEMETRY_METRICS_ENABLED"))
	if val := env("TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	setBool(&cfg.Telemetry.Tracing.Enabled, env("TELEMETRY_TRACING_ENABLED"))
	if val := env("TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := env("TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Security overrides
	setBool(&cfg.Security.TLS.Enabled, env("SECURITY_TLS_ENABLED"))
	if val := env("SECURITY_TLS_CERT_FILE"); val != "" {
		cfg.Security.TLS.CertFile = val
	}
	if val := env("SECURITY_TLS_KEY_FILE"); val != "" {
		cfg.Security.TLS.KeyFile = val
	}
	if val := env("SECURITY_TLS_MIN_VERSION"); val != "" {
		cfg.Security.TLS.MinVersion = val
	}
}

// applyDeploymentEnv reads the short variable names used by existing
// deployments of the chat backend.
func applyDeploymentEnv(cfg *Config) {
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		cfg.Upstream.DefaultModel = val
	}
	if val := os.Getenv("GEMINI_API_BASE"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.Server.ListenAddress = ":" + val
	}
	if val := os.Getenv("NODE_ENV"); val != "" {
		cfg.Environment = val
	}
}

func env(name string) string {
	return os.Getenv(EnvPrefix + name)
}

func setDuration(dst *time.Duration, val string) {
	if val == "" {
		return
	}
	if d, err := time.ParseDuration(val); err == nil {
		*dst = d
	}
}

func setBool(dst *bool, val string) {
	if val == "" {
		return
	}
	if b, err := strconv.ParseBool(val); err == nil {
		*dst = b
	}
}
