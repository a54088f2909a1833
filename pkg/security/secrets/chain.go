package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain tries providers in order and returns the first value found.
// A provider reporting ErrNotFound passes to the next one; any other error
// stops the lookup.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain. Nil providers are skipped.
func NewChain(providers ...Provider) *Chain {
	c := &Chain{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// GetSecret returns the first value any provider has for name.
func (c *Chain) GetSecret(ctx context.Context, name string) (string, error) {
	for _, p := range c.providers {
		value, err := p.GetSecret(ctx, name)
		if err == nil {
			slog.DebugContext(ctx, "secret resolved", "provider", p.Name(), "name", name)
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%s provider: %w", p.Name(), err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Name returns the provider name.
func (c *Chain) Name() string {
	return "chain"
}

// Refresh refreshes every provider that caches.
func (c *Chain) Refresh(ctx context.Context) error {
	var errs []error
	for _, p := range c.providers {
		if r, ok := p.(Refresher); ok {
			if err := r.Refresh(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
