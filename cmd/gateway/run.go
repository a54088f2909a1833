package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"vhbc/gateway/pkg/cli"
	"vhbc/gateway/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server listens on the configured address and forwards chat requests to
the Gemini API, falling back across API versions when a model is not found.

Examples:
  # Start with configuration from the environment
  gateway run

  # Start with a config file
  gateway run --config /etc/vhbc/gateway.yaml

  # Override listen address
  gateway run --listen 0.0.0.0:8080

  # Validate config without starting server
  gateway run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return cli.NewConfigError("telemetry.logging", err)
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	fmt.Fprintf(out, "VHBC Gateway v%s (%s)\n", Version, cfg.Environment)

	a, err := newApp(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	slog.Info("gateway configured",
		"listen_address", cfg.Server.ListenAddress,
		"default_model", cfg.Upstream.DefaultModel,
		"base_url_override", cfg.Upstream.BaseURL != "",
		"rate_limit", cfg.RateLimit.Enabled,
		"rate_limit_backend", cfg.RateLimit.Storage.Backend,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)

	serveErr := a.server.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Close(shutdownCtx); err != nil {
		slog.Warn("error releasing resources", "error", err)
	}

	if serveErr != nil {
		return cli.NewCommandError("run", serveErr)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}
