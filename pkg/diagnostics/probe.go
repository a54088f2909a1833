package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vhbc/gateway/pkg/upstream"
)

// Probe defaults.
const (
	DefaultProbePrompt  = "Say hello"
	DefaultProbeTimeout = 10 * time.Second
)

// DefaultProbeModels are tried in order under each API version.
var DefaultProbeModels = []string{"gemini-pro", "gemini-1.5-flash", "gemini-1.5-pro"}

// Target is one model at one base address.
type Target struct {
	Base  string `json:"base"`
	Model string `json:"model"`
}

// DefaultTargets pairs every base with every model, bases outermost.
func DefaultTargets(bases, models []string) []Target {
	if len(bases) == 0 {
		bases = []string{upstream.GoogleV1, upstream.GoogleV1Beta}
	}
	if len(models) == 0 {
		models = DefaultProbeModels
	}

	targets := make([]Target, 0, len(bases)*len(models))
	for _, b := range bases {
		for _, m := range models {
			targets = append(targets, Target{Base: b, Model: m})
		}
	}
	return targets
}

// ProbeResult is the outcome of one target.
type ProbeResult struct {
	Target
	OK       bool          `json:"ok"`
	Status   int           `json:"status,omitempty"`
	Message  string        `json:"message,omitempty"`
	Text     string        `json:"text,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Prober sends a fixed prompt to targets until one answers.
type Prober struct {
	client  *upstream.Client
	prompt  string
	timeout time.Duration
}

// NewProber creates a prober. Zero values select the defaults.
func NewProber(client *upstream.Client, prompt string, timeout time.Duration) *Prober {
	if prompt == "" {
		prompt = DefaultProbePrompt
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{client: client, prompt: prompt, timeout: timeout}
}

// Run probes targets in order and stops after the first success. onResult,
// when non-nil, is called after each attempt. It returns every result and a
// pointer to the successful one, or nil when none answered.
func (p *Prober) Run(ctx context.Context, key string, targets []Target, onResult func(int, ProbeResult)) ([]ProbeResult, *ProbeResult, error) {
	if key == "" {
		return nil, nil, ErrNoKey
	}

	contents, err := p.contents()
	if err != nil {
		return nil, nil, err
	}
	req := &upstream.GenerateRequest{Contents: contents}

	results := make([]ProbeResult, 0, len(targets))
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return results, nil, err
		}

		res := p.probe(ctx, key, t, req)
		results = append(results, res)
		if onResult != nil {
			onResult(i, res)
		}
		if res.OK {
			return results, &results[len(results)-1], nil
		}
	}
	return results, nil, nil
}

func (p *Prober) probe(ctx context.Context, key string, t Target, req *upstream.GenerateRequest) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	payload, err := p.client.GenerateContent(ctx, t.Base, t.Model, key, req)
	res := ProbeResult{Target: t, Duration: time.Since(start)}

	if err == nil {
		res.OK = true
		res.Text = upstream.Text(payload)
		return res
	}

	var se *upstream.StatusError
	switch {
	case errors.As(err, &se):
		res.Status = se.StatusCode
		res.Message = se.Message
		if se.StatusCode == http.StatusNotFound && res.Message == "" {
			res.Message = "Not found"
		}
	default:
		res.Message = err.Error()
	}
	return res
}

func (p *Prober) contents() (json.RawMessage, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role"`
		Parts []part `json:"parts"`
	}
	return json.Marshal([]content{{Role: "user", Parts: []part{{Text: p.prompt}}}})
}
