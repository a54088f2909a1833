package secrets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"vhbc/gateway/pkg/config"
)

// APIKeyName is the secret name of the upstream API key when no key file
// is configured.
const APIKeyName = "gemini-api-key"

// KeySource adapts a Provider to the single-key lookup the gateway engine
// performs on every request.
type KeySource struct {
	provider Provider
	name     string
	closer   func() error
}

// NewKeySource creates a KeySource reading name from provider.
func NewKeySource(provider Provider, name string) *KeySource {
	return &KeySource{provider: provider, name: name}
}

// NewKeySourceFromConfig builds the key lookup from upstream configuration:
// the key file (if any), then the configured key. GEMINI_API_KEY reaches the
// configured key through config loading; the process environment is not
// read here.
func NewKeySourceFromConfig(cfg config.UpstreamConfig) (*KeySource, error) {
	var file *FileProvider
	name := APIKeyName

	if cfg.APIKeyFile != "" {
		var err error
		file, err = NewFileProvider(filepath.Dir(cfg.APIKeyFile), cfg.WatchKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open API key file: %w", err)
		}
		name = filepath.Base(cfg.APIKeyFile)
	}

	chain := NewChain(
		fileOrNil(file),
		NewStaticProvider(map[string]string{name: cfg.APIKey}),
	)

	ks := NewKeySource(chain, name)
	if file != nil {
		ks.closer = file.Close
	}
	return ks, nil
}

// APIKey returns the key, or "" with a nil error when none is configured.
func (k *KeySource) APIKey(ctx context.Context) (string, error) {
	value, err := k.provider.GetSecret(ctx, k.name)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}

// Close releases the underlying file watcher, if any.
func (k *KeySource) Close() error {
	if k.closer == nil {
		return nil
	}
	return k.closer()
}

// fileOrNil keeps a nil *FileProvider from becoming a non-nil Provider.
func fileOrNil(p *FileProvider) Provider {
	if p == nil {
		return nil
	}
	return p
}
