package secrets

import (
	"context"
	"fmt"
)

// StaticProvider serves secrets from a fixed map, typically values written
// directly into the configuration file.
type StaticProvider struct {
	values map[string]string
}

// NewStaticProvider creates a StaticProvider. Empty values are dropped.
func NewStaticProvider(values map[string]string) *StaticProvider {
	m := make(map[string]string, len(values))
	for k, v := range values {
		if v != "" {
			m[k] = v
		}
	}
	return &StaticProvider{values: m}
}

// GetSecret returns the stored value for name.
func (p *StaticProvider) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := p.values[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return "static"
}
