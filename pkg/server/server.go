package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"vhbc/gateway/pkg/config"
	"vhbc/gateway/pkg/gateway"
	"vhbc/gateway/pkg/limits/ratelimit"
	"vhbc/gateway/pkg/proxy"
	"vhbc/gateway/pkg/proxy/handlers"
	"vhbc/gateway/pkg/proxy/middleware"
	sectls "vhbc/gateway/pkg/security/tls"
	"vhbc/gateway/pkg/telemetry/health"
	"vhbc/gateway/pkg/telemetry/metrics"
	"vhbc/gateway/pkg/telemetry/tracing"
)

// BuildInfo is reported by the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options carries the components the server mounts. Only Gateway is
// required; nil components are simply not installed.
type Options struct {
	// Gateway handles chat requests.
	Gateway handlers.Pipeline

	// Keys is checked by the readiness endpoint.
	Keys gateway.KeySource

	// Limiter enforces the per-client request ceiling.
	Limiter *ratelimit.Limiter

	// Metrics records requests and serves the scrape endpoint.
	Metrics *metrics.Collector

	// Tracer opens a server span per request.
	Tracer *tracing.Tracer

	// Health serves liveness and readiness. Nil means a fresh checker.
	Health *health.Checker

	// Build is reported by /api/version.
	Build BuildInfo
}

// Server is the HTTP server for the chat gateway.
type Server struct {
	cfg        *config.Config
	opts       Options
	health     *health.Checker
	janitor    *ratelimit.Janitor
	httpServer *http.Server
	listener   net.Listener

	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server and registers its readiness checks.
func NewServer(cfg *config.Config, opts Options) *Server {
	checker := opts.Health
	if checker == nil {
		checker = health.New(0)
	}

	s := &Server{
		cfg:    cfg,
		opts:   opts,
		health: checker,
	}

	if opts.Keys != nil {
		checker.RegisterCheck("api_key", func(ctx context.Context) error {
			key, err := opts.Keys.APIKey(ctx)
			if err != nil {
				return err
			}
			if key == "" {
				return errors.New(gateway.MsgAPIKeyMissing)
			}
			return nil
		})
	}

	if opts.Limiter != nil {
		checker.RegisterCheck("rate_limit_store", opts.Limiter.Ping)
		s.janitor = ratelimit.NewJanitor(opts.Limiter, cfg.RateLimit.Storage.CleanupSchedule)
	}

	return s
}

// Start binds the listen address and serves until ctx is cancelled or the
// server fails. A cancelled context triggers a graceful shutdown bounded by
// the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	s.httpServer = &http.Server{
		Addr:           s.cfg.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	tlsEnabled := s.cfg.Security.TLS.Enabled
	if tlsEnabled {
		tlsConfig, err := sectls.NewServerConfig(ctx, s.cfg.Security.TLS)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	ln, err := net.Listen("tcp", s.cfg.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.ListenAddress, err)
	}
	s.listener = ln
	s.isRunning = true
	s.mu.Unlock()

	if s.janitor != nil {
		if err := s.janitor.Start(ctx); err != nil {
			slog.Warn("failed to start rate limit janitor", "error", err)
		}
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", ln.Addr().String(),
			"tls_enabled", tlsEnabled,
			"environment", s.cfg.Environment,
		)

		var err error
		if tlsEnabled {
			err = s.httpServer.ServeTLS(ln, "", "")
		} else {
			err = s.httpServer.Serve(ln)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		_ = s.Shutdown(context.Background())
		return err
	}
}

// Shutdown gracefully shuts down the server. It is safe to call more than
// once; only the first call does anything.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.cfg.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if s.janitor != nil {
			s.janitor.Stop()
		}

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()

	rl := s.cfg.RateLimit
	if s.opts.Limiter != nil && rl.Enabled {
		handler = middleware.RateLimitMiddleware(s.opts.Limiter, rl.PathPrefix, rl.TrustProxy)(handler)
	}
	handler = middleware.CORSMiddleware(s.cfg.Server.CORS)(handler)
	handler = middleware.SecurityHeadersMiddleware(handler)
	if s.opts.Tracer != nil {
		handler = s.opts.Tracer.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(rl.TrustProxy)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.cfg.IsProduction())(handler)

	return handler
}

// routes registers every endpoint. Unmatched paths fall through to the JSON
// 404 handler.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	get := func(h http.Handler) http.Handler { return handlers.Methods(h, http.MethodGet) }

	mux.Handle("/{$}", get(handlers.RootHandler("")))
	mux.Handle("/api/health", get(s.health.LivenessHandler()))
	mux.Handle("/api/ready", get(s.health.ReadinessHandler()))
	mux.Handle("/api/version", get(health.VersionHandler(
		s.opts.Build.Version, s.opts.Build.Commit, s.opts.Build.BuildTime)))

	chatOpts := []handlers.ChatOption{handlers.WithMaxBodySize(s.maxBodySize())}
	if s.opts.Metrics != nil {
		chatOpts = append(chatOpts, handlers.WithRecorder(s.opts.Metrics))
	}
	mux.Handle("/api/chat", handlers.Methods(handlers.NewChatHandler(s.opts.Gateway, chatOpts...), http.MethodPost))

	if s.opts.Metrics != nil && s.cfg.Telemetry.Metrics.Enabled {
		mux.Handle(s.cfg.Telemetry.Metrics.Path, get(s.opts.Metrics.Handler()))
	}

	mux.Handle("/", handlers.NotFoundHandler())
	return mux
}

func (s *Server) maxBodySize() int64 {
	if s.cfg.Server.MaxBodyBytes > 0 {
		return s.cfg.Server.MaxBodyBytes
	}
	return proxy.MaxRequestBodySize
}
