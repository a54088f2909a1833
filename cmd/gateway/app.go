package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vhbc/gateway/pkg/config"
	"vhbc/gateway/pkg/gateway"
	"vhbc/gateway/pkg/limits/ratelimit"
	"vhbc/gateway/pkg/security/secrets"
	"vhbc/gateway/pkg/server"
	"vhbc/gateway/pkg/telemetry/health"
	"vhbc/gateway/pkg/telemetry/metrics"
	"vhbc/gateway/pkg/telemetry/tracing"
	"vhbc/gateway/pkg/upstream"
)

// app holds the assembled components and releases them in reverse order.
type app struct {
	server  *server.Server
	keys    *secrets.KeySource
	limiter *ratelimit.Limiter
	tracer  *tracing.Tracer
}

// settingsFromConfig copies the operator settings the gateway core reads.
func settingsFromConfig(cfg *config.Config) gateway.Settings {
	return gateway.Settings{
		DefaultModel:   cfg.Upstream.DefaultModel,
		BaseURL:        cfg.Upstream.BaseURL,
		AttemptTimeout: cfg.Upstream.AttemptTimeout,
		RequestBudget:  cfg.Upstream.RequestBudget,
		Production:     cfg.IsProduction(),
	}
}

// newApp wires configuration into a ready-to-start server.
func newApp(cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	a.keys, err = secrets.NewKeySourceFromConfig(cfg.Upstream)
	if err != nil {
		return nil, err
	}

	a.tracer, err = tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	if cfg.RateLimit.Enabled {
		a.limiter, err = ratelimit.NewFromConfig(cfg.RateLimit, ratelimit.WithRecorder(collector))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
	}

	settings := settingsFromConfig(cfg)
	engine := gateway.NewEngine(upstream.NewClient(nil), a.keys, settings,
		gateway.WithObserver(collector),
		gateway.WithTracer(a.tracer),
		gateway.WithLogger(slog.Default().With("component", "gateway.engine")),
	)

	a.server = server.NewServer(cfg, server.Options{
		Gateway: gateway.New(gateway.NewResolver(settings), engine),
		Keys:    a.keys,
		Limiter: a.limiter,
		Metrics: collector,
		Tracer:  a.tracer,
		Health:  health.New(0),
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	})
	return a, nil
}

// Close releases every component that was created.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.limiter != nil {
		errs = append(errs, a.limiter.Close())
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	if a.keys != nil {
		errs = append(errs, a.keys.Close())
	}
	return errors.Join(errs...)
}
