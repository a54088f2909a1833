package config

import "time"

// Config is the root configuration structure for the chat gateway.
// It contains all configuration sections for the HTTP server, the upstream
// Gemini API, rate limiting, telemetry, and security settings.
type Config struct {
	// Environment selects the runtime mode. In "production" internal error
	// details are never returned to clients.
	// Options: "development", "production", "test"
	// Default: "development"
	Environment string `yaml:"environment"`

	// Server contains HTTP server configuration including listen address,
	// timeouts, body limits and CORS.
	Server ServerConfig `yaml:"server"`

	// Upstream contains the generative-AI API settings: credential source,
	// default model, optional base address override and attempt timeout.
	Upstream UpstreamConfig `yaml:"upstream"`

	// RateLimit contains the per-client request ceiling applied to /api/ routes.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains TLS settings for the listener.
	Security SecurityConfig `yaml:"security"`
}

// IsProduction reports whether the gateway runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the gateway to listen on.
	// Format: "host:port" (e.g., ":3000", "0.0.0.0:8080").
	// Default: ":3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the upstream attempt timeout or long
	// completions are cut off.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the JSON request body.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains the origin-allow policy.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists production origins that are always allowed.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowLocalhost allows any origin mentioning localhost or 127.0.0.1.
	// Default: true
	AllowLocalhost bool `yaml:"allow_localhost"`

	// AllowAll allows origins that matched nothing else. Turn this off once
	// AllowedOrigins is populated.
	// Default: true
	AllowAll bool `yaml:"allow_all"`

	// AllowedMethods is sent in preflight responses.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is sent in preflight responses.
	// Default: ["Content-Type", "Authorization"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// AllowCredentials controls Access-Control-Allow-Credentials.
	// Default: true
	AllowCredentials bool `yaml:"allow_credentials"`

	// MaxAge is the preflight cache lifetime in seconds (0 = header omitted).
	MaxAge int `yaml:"max_age"`
}

// UpstreamConfig contains configuration for the generative-AI API.
type UpstreamConfig struct {
	// APIKey is the shared secret sent upstream. Usually supplied through
	// GEMINI_API_KEY rather than written to the file.
	APIKey string `yaml:"api_key"`

	// APIKeyFile names a file holding the key. When set it takes precedence
	// over APIKey. The file must have 0600 or 0400 permissions.
	APIKeyFile string `yaml:"api_key_file"`

	// WatchKeyFile reloads the key when APIKeyFile changes.
	// Default: false
	WatchKeyFile bool `yaml:"watch_key_file"`

	// DefaultModel is used when a request does not name a model.
	DefaultModel string `yaml:"default_model"`

	// BaseURL is an operator override tried before the built-in API versions.
	BaseURL string `yaml:"base_url"`

	// AttemptTimeout bounds each upstream call.
	// Default: 30s
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// RequestBudget optionally caps the whole fallback loop (0 = no cap).
	RequestBudget time.Duration `yaml:"request_budget"`
}

// RateLimitConfig contains configuration for the per-client request ceiling.
type RateLimitConfig struct {
	// Enabled controls whether the limiter is installed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// PathPrefix restricts limiting to matching paths.
	// Default: "/api/"
	PathPrefix string `yaml:"path_prefix"`

	// Window is the fixed window length.
	// Default: 15m
	Window time.Duration `yaml:"window"`

	// MaxRequests is the number of requests allowed per client per window.
	// Default: 100
	MaxRequests int `yaml:"max_requests"`

	// TrustProxy makes the limiter key on X-Forwarded-For instead of the
	// socket address.
	// Default: false
	TrustProxy bool `yaml:"trust_proxy"`

	// Storage selects where window counters live.
	Storage RateLimitStorageConfig `yaml:"storage"`
}

// RateLimitStorageConfig selects and configures the counter store.
type RateLimitStorageConfig struct {
	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// CleanupSchedule is a cron expression for purging expired windows.
	// Default: "@every 5m"
	CleanupSchedule string `yaml:"cleanup_schedule"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/ratelimit.db"
	Path string `yaml:"path"`

	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "vhbc"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "gateway"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request duration (seconds).
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (e.g., "localhost:4317").
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is the service name in traces.
	// Default: "vhbc-gateway"
	ServiceName string `yaml:"service_name"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS contains TLS configuration for the listener.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS configuration.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the TLS certificate file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the TLS private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the lowest accepted protocol version, "1.2" or "1.3".
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the key pair is checked for changes on
	// disk, so renewed certificates are picked up without a restart.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}
