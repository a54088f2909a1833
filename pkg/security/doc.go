/*
Package security holds the gateway's credential and transport handling.

# Upstream key

The secrets package resolves the Gemini API key from a key file, falling
back to the configured value (which config loading fills from
GEMINI_API_KEY). A watched
key file is re-read when it changes:

	keys, err := secrets.NewKeySourceFromConfig(cfg.Upstream)
	if err != nil {
		return err
	}
	defer keys.Close()

	key, err := keys.APIKey(ctx)

An empty key is not an error here. The forwarding engine reports it as a
configuration error on the first chat request.

# Listener TLS

The tls package loads the server certificate and reloads it when the files
are replaced:

	tlsConfig, err := tls.NewServerConfig(ctx, cfg.Security.TLS)
*/
package security
