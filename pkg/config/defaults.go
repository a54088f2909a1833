package config

import "time"

// Environment names.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

// Default values for configuration fields.
const (
	DefaultEnvironment = EnvironmentDevelopment

	// Server defaults
	DefaultListenAddress   = ":3000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576  // 1MB
	DefaultMaxBodyBytes    = 10485760 // 10MB

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSAllowLocalhost   = true
	DefaultCORSAllowAll         = true
	DefaultCORSAllowCredentials = true

	// Upstream defaults
	DefaultAttemptTimeout = 30 * time.Second

	// Rate limit defaults
	DefaultRateLimitEnabled     = true
	DefaultRateLimitPathPrefix  = "/api/"
	DefaultRateLimitWindow      = 15 * time.Minute
	DefaultRateLimitMaxRequests = 100
	DefaultRateLimitBackend     = "memory"
	DefaultRateLimitCleanup     = "@every 5m"
	DefaultSQLitePath           = "data/ratelimit.db"
	DefaultSQLiteDriver         = "sqlite"
	DefaultSQLiteBusyTimeout    = 5 * time.Second

	// TLS defaults
	DefaultTLSMinVersion     = "1.2"
	DefaultTLSReloadInterval = 5 * time.Minute

	// Telemetry defaults
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "json"
	DefaultMetricsEnabled      = true
	DefaultPrometheusPath      = "/metrics"
	DefaultMetricsNamespace    = "vhbc"
	DefaultMetricsSubsystem    = "gateway"
	DefaultTracingEnabled      = false
	DefaultTracingSamplingRate = 1.0
	DefaultTracingServiceName  = "vhbc-gateway"
)

// DefaultRequestDurationBuckets are the histogram buckets used when none are configured.
var DefaultRequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// NewDefaultConfig returns a configuration with every default applied,
// including boolean switches whose default is true. Loaders decode YAML on
// top of it so that an explicit "false" in the file survives.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{
				Enabled:          DefaultCORSEnabled,
				AllowLocalhost:   DefaultCORSAllowLocalhost,
				AllowAll:         DefaultCORSAllowAll,
				AllowCredentials: DefaultCORSAllowCredentials,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled: DefaultRateLimitEnabled,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				Enabled: DefaultTracingEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
//
// Boolean fields are left alone; use NewDefaultConfig as the decoding
// target when their defaults matter.
func ApplyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(cfg)

	// Upstream defaults
	if cfg.Upstream.AttemptTimeout == 0 {
		cfg.Upstream.AttemptTimeout = DefaultAttemptTimeout
	}

	// Rate limit defaults
	rl := &cfg.RateLimit
	if rl.PathPrefix == "" {
		rl.PathPrefix = DefaultRateLimitPathPrefix
	}
	if rl.Window == 0 {
		rl.Window = DefaultRateLimitWindow
	}
	if rl.MaxRequests == 0 {
		rl.MaxRequests = DefaultRateLimitMaxRequests
	}
	if rl.Storage.Backend == "" {
		rl.Storage.Backend = DefaultRateLimitBackend
	}
	if rl.Storage.CleanupSchedule == "" {
		rl.Storage.CleanupSchedule = DefaultRateLimitCleanup
	}
	if rl.Storage.SQLite.Path == "" {
		rl.Storage.SQLite.Path = DefaultSQLitePath
	}
	if rl.Storage.SQLite.Driver == "" {
		rl.Storage.SQLite.Driver = DefaultSQLiteDriver
	}
	if rl.Storage.SQLite.BusyTimeout == 0 {
		rl.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	// TLS defaults
	if cfg.Security.TLS.MinVersion == "" {
		cfg.Security.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Security.TLS.ReloadInterval == 0 {
		cfg.Security.TLS.ReloadInterval = DefaultTLSReloadInterval
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}

// applyCORSDefaults applies default values to CORS configuration.
func applyCORSDefaults(cfg *Config) {
	cors := &cfg.Server.CORS

	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
}
