// Package config provides configuration management for the chat gateway.
//
// Configuration comes from an optional YAML file, environment variable
// overrides and built-in defaults. Every loader returns a validated *Config.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("gateway.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("gateway.yaml")
//
//  3. From the environment alone (no file):
//     cfg, err := config.LoadFromEnv()
//
// # Environment Variable Overrides
//
// Structured overrides follow the naming convention GATEWAY_SECTION_FIELD:
//
//   - GATEWAY_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - GATEWAY_UPSTREAM_DEFAULT_MODEL overrides upstream.default_model
//   - GATEWAY_RATE_LIMIT_MAX_REQUESTS overrides rate_limit.max_requests
//
// The deployment variables GEMINI_API_KEY, GEMINI_MODEL, GEMINI_API_BASE,
// PORT and NODE_ENV are honored as well. When both spellings are set the
// GATEWAY_* form wins.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	environment: production
//	server:
//	  listen_address: ":3000"
//	  cors:
//	    allowed_origins: ["https://chat.example.com"]
//	    allow_all: false
//	upstream:
//	  default_model: "gemini-1.5-pro"
//	  attempt_timeout: 30s
//	rate_limit:
//	  window: 15m
//	  max_requests: 100
//	  storage:
//	    backend: sqlite
//	    sqlite:
//	      path: data/ratelimit.db
//
// Loaded configurations are passed explicitly to the components that need
// them; there is no package-level instance.
package config
