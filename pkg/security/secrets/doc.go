/*
Package secrets loads the upstream API key without ever logging it.

# Providers

  - FileProvider reads one file per secret from a directory, enforcing 0600 or
    0400 permissions, and can watch the directory with fsnotify so rotated
    keys are picked up without a restart.
  - StaticProvider serves values written into the configuration file.
  - Chain tries providers in order; ErrNotFound falls through to the next.

# Key Source

KeySource is what the gateway engine calls on each request. A missing key is
reported as an empty string so the engine can answer configuration_error:

	keys, err := secrets.NewKeySourceFromConfig(cfg.Upstream)
	if err != nil {
		return err
	}
	defer keys.Close()

	key, err := keys.APIKey(ctx) // "" when nothing is configured

# Security

Secret values never appear in log records or error messages produced by this
package. Errors name the variable or file that was consulted, not its content.
*/
package secrets
