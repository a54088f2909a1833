package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"vhbc/gateway/pkg/cli"
	"vhbc/gateway/pkg/diagnostics"
	"vhbc/gateway/pkg/security/secrets"
	"vhbc/gateway/pkg/upstream"
)

var checkKeyFlags struct {
	base    string
	output  string
	timeout time.Duration
}

var checkKeyCmd = &cobra.Command{
	Use:   "check-key",
	Short: "Verify the API key and list models that support generateContent",
	Long: `Verify the configured API key by listing the models it can see.

The key is read the same way the server reads it: the key file, then the
configured key, then GEMINI_API_KEY. Only a masked prefix is ever printed.

Examples:
  # Check against v1beta
  gateway check-key

  # Check against a specific base address, JSON output
  gateway check-key --base https://generativelanguage.googleapis.com/v1 --output json`,
	RunE: runCheckKey,
}

func init() {
	rootCmd.AddCommand(checkKeyCmd)

	checkKeyCmd.Flags().StringVar(&checkKeyFlags.base, "base", upstream.GoogleV1Beta, "API base address")
	checkKeyCmd.Flags().StringVarP(&checkKeyFlags.output, "output", "o", "text", "output format (text, json)")
	checkKeyCmd.Flags().DurationVar(&checkKeyFlags.timeout, "timeout", 10*time.Second, "request timeout")
}

// keyReport renders a key check for humans.
type keyReport struct {
	*diagnostics.KeyReport
}

func (r keyReport) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Testing API key: %s\n\n", r.KeyPrefix)
	fmt.Fprintln(w, "✓ API key is valid")
	fmt.Fprintf(w, "\nModels supporting generateContent at %s:\n", r.Base)
	if len(r.Models) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, m := range r.Models {
		fmt.Fprintf(w, "  - %s (%s)\n", m.Name, m.DisplayName)
	}
	return nil
}

func runCheckKey(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(checkKeyFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err)
	}
	timeout, err := parseTimeout(checkKeyFlags.timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keys, err := secrets.NewKeySourceFromConfig(cfg.Upstream)
	if err != nil {
		return cli.NewConfigError("upstream.api_key_file", err)
	}
	defer keys.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	key, err := keys.APIKey(ctx)
	if err != nil {
		return cli.NewCommandError("check-key", err)
	}

	report, err := diagnostics.CheckKey(ctx, upstream.NewClient(nil), checkKeyFlags.base, key)
	if err != nil {
		return cli.NewCommandError("check-key", describeUpstreamError(err))
	}

	return cli.Write(cmd.OutOrStdout(), format, keyReport{report})
}

// describeUpstreamError turns an upstream failure into a one-line message
// with the status and upstream message when available.
func describeUpstreamError(err error) error {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = "no message"
		}
		return fmt.Errorf("API key test failed: status %d: %s", se.StatusCode, msg)
	}
	return err
}
