// Package logging configures log/slog for the gateway.
//
// New returns a *slog.Logger whose handler masks credentials before they
// reach the output: Gemini API keys (AIza...), key= query parameters on
// upstream URLs, bearer tokens, and any string attribute whose name looks
// like a secret. Records logged with a context also carry the request ID
// set by WithRequestID and, when a span is active, its trace and span IDs.
//
//	logger, err := logging.Setup(cfg.Telemetry.Logging, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "forwarding", "url", upstreamURL)
package logging
