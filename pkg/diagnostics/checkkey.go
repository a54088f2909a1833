package diagnostics

import (
	"context"
	"errors"

	"vhbc/gateway/pkg/telemetry/logging"
	"vhbc/gateway/pkg/upstream"
)

// GenerateContentMethod is the generation method the gateway relies on.
const GenerateContentMethod = "generateContent"

// ErrNoKey is returned when no API key is available.
var ErrNoKey = errors.New("GEMINI_API_KEY is not set")

// KeyReport is the outcome of a key check.
type KeyReport struct {
	// KeyPrefix is the masked key, safe to print.
	KeyPrefix string `json:"key"`

	// Base is the address that was queried.
	Base string `json:"base"`

	// Models are the models that support generateContent.
	Models []upstream.Model `json:"models"`
}

// CheckKey lists the models visible to key at base and keeps those that
// support generateContent. A rejected key surfaces as *upstream.StatusError.
func CheckKey(ctx context.Context, client *upstream.Client, base, key string) (*KeyReport, error) {
	if key == "" {
		return nil, ErrNoKey
	}
	if base == "" {
		base = upstream.GoogleV1Beta
	}

	models, err := client.ListModels(ctx, base, key)
	if err != nil {
		return nil, err
	}

	report := &KeyReport{
		KeyPrefix: logging.RedactAPIKey(key),
		Base:      base,
		Models:    []upstream.Model{},
	}
	for _, m := range models {
		if m.Supports(GenerateContentMethod) {
			report.Models = append(report.Models, m)
		}
	}
	return report, nil
}
