package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a provider has no value for a secret.
var ErrNotFound = errors.New("secret not found")

// Provider retrieves secrets by name.
type Provider interface {
	// GetSecret returns the value of name. A missing secret yields an
	// error wrapping ErrNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// Name identifies the backend in logs (env, file, static, chain).
	Name() string
}

// Refresher is implemented by providers that cache values and can drop them.
type Refresher interface {
	Refresh(ctx context.Context) error
}
