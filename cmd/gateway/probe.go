package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vhbc/gateway/pkg/cli"
	"vhbc/gateway/pkg/diagnostics"
	"vhbc/gateway/pkg/security/secrets"
	"vhbc/gateway/pkg/upstream"
)

// errNoWorkingModel is returned when every probe target failed.
var errNoWorkingModel = errors.New("no model answered")

var probeFlags struct {
	models  []string
	bases   []string
	prompt  string
	timeout time.Duration
	output  string
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Find the first model and API version that answers",
	Long: `Send a short prompt to each model under each API version in turn and stop
at the first one that answers. Useful to pick GEMINI_MODEL and to confirm
which API versions a key can reach.

Examples:
  # Probe the default matrix (gemini-pro, gemini-1.5-flash, gemini-1.5-pro x v1, v1beta)
  gateway probe

  # Probe specific models
  gateway probe --model gemini-1.5-flash --model gemini-1.5-pro`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringSliceVarP(&probeFlags.models, "model", "m", nil, "model to probe (repeatable)")
	probeCmd.Flags().StringSliceVar(&probeFlags.bases, "base", nil, "API base address to probe (repeatable)")
	probeCmd.Flags().StringVar(&probeFlags.prompt, "prompt", diagnostics.DefaultProbePrompt, "prompt to send")
	probeCmd.Flags().DurationVar(&probeFlags.timeout, "timeout", 10*time.Second, "per-request timeout")
	probeCmd.Flags().StringVarP(&probeFlags.output, "output", "o", "text", "output format (text, json)")
}

// probeReport is the rendered outcome of a probe run.
type probeReport struct {
	Results []diagnostics.ProbeResult `json:"results"`
	Winner  *diagnostics.ProbeResult  `json:"winner,omitempty"`
}

func (r probeReport) RenderText(w io.Writer) error {
	if r.Winner == nil {
		_, err := fmt.Fprintln(w, "\n✗ No model answered")
		return err
	}
	_, err := fmt.Fprintf(w, "\n✓ %s at %s: %q\n", r.Winner.Model, r.Winner.Base, truncate(r.Winner.Text, 50))
	return err
}

func runProbe(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(probeFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err)
	}
	timeout, err := parseTimeout(probeFlags.timeout)
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

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	key, err := keys.APIKey(ctx)
	if err != nil {
		return cli.NewCommandError("probe", err)
	}

	out := cmd.OutOrStdout()
	targets := diagnostics.DefaultTargets(probeFlags.bases, probeFlags.models)
	prober := diagnostics.NewProber(upstream.NewClient(nil), probeFlags.prompt, timeout)

	var onResult func(int, diagnostics.ProbeResult)
	if format == cli.FormatText {
		steps := cli.NewStepReporter(out, len(targets))
		onResult = func(_ int, r diagnostics.ProbeResult) {
			steps.Step(r.Model+" @ "+r.Base, r.OK, probeDetail(r))
		}
	}

	results, winner, err := prober.Run(ctx, key, targets, onResult)
	if err != nil {
		return cli.NewCommandError("probe", err)
	}

	if err := cli.Write(out, format, probeReport{Results: results, Winner: winner}); err != nil {
		return err
	}
	if winner == nil {
		return cli.NewCommandError("probe", errNoWorkingModel)
	}
	return nil
}

func probeDetail(r diagnostics.ProbeResult) string {
	switch {
	case r.OK:
		return fmt.Sprintf("%q", truncate(r.Text, 50))
	case r.Status != 0:
		return fmt.Sprintf("%s (%d)", r.Message, r.Status)
	default:
		return r.Message
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func parseTimeout(d time.Duration) (time.Duration, error) {
	if d <= 0 {
		return 0, cli.NewConfigError("timeout", fmt.Errorf("timeout must be positive, got %s", d))
	}
	return d, nil
}
