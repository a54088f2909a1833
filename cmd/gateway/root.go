package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vhbc/gateway/pkg/cli"
	"vhbc/gateway/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "VHBC chat gateway for the Gemini API",
	Long: `The VHBC chat gateway accepts chat requests from the VHBC web client and
forwards them to the Gemini generateContent API.

It provides:
  - Request validation with stable JSON errors
  - Model resolution and fallback across API versions on 404
  - Per-client rate limiting on /api/ routes
  - Structured logging, Prometheus metrics and OpenTelemetry tracing

Configuration comes from an optional YAML file plus the environment
(GEMINI_API_KEY, GEMINI_MODEL, GEMINI_API_BASE, PORT, NODE_ENV).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: environment only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration named by --config, or the environment
// alone when the flag is empty.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err)
	}
	return cfg, nil
}
