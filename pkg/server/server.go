package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"pagecraft/quill/pkg/api"
	"pagecraft/quill/pkg/api/middleware"
	"pagecraft/quill/pkg/assist"
	"pagecraft/quill/pkg/config"
	"pagecraft/quill/pkg/security/auth"
	"pagecraft/quill/pkg/telemetry/logging"
)

// Dependencies carries everything the server mounts.
type Dependencies struct {
	// Service handles generation requests. Required.
	Service *assist.Service

	// Logger receives request logs. Nil means no logging.
	Logger *logging.Logger

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	// ReadyChecks back the /readyz endpoint.
	ReadyChecks []api.ReadyCheck

	// TokenSource resolves the shared token requests must present.
	// Nil disables the token check; probes and /metrics are never
	// behind it either way.
	TokenSource func(ctx context.Context) (string, error)
}

// Server owns the HTTP listener lifecycle: route assembly, the
// middleware chain, serving, and graceful shutdown.
type Server struct {
	config       *config.ServerConfig
	deps         Dependencies
	logger       *logging.Logger
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. The configuration should already have
// defaults applied.
func New(cfg *config.ServerConfig, deps Dependencies) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server configuration is required")
	}
	if deps.Service == nil {
		return nil, errors.New("generation service is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger,
	}, nil
}

// Start serves HTTP until ctx is cancelled or Shutdown is called,
// then drains in-flight requests within the configured shutdown
// timeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			"address", s.config.ListenAddress,
			"request_timeout", s.config.RequestTimeout.String(),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("draining in-flight requests",
			"timeout", s.config.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("shutdown did not complete cleanly", "error", err)
				shutdownErr = fmt.Errorf("server shutdown: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler assembles the routes and middleware chain. Exposed so tests
// can drive the full stack without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Only the generation endpoint sits behind host authentication;
	// probes and metrics must stay reachable for the platform.
	authn := auth.NewMiddleware(auth.MiddlewareConfig{
		ExpectedToken: s.deps.TokenSource,
	})
	generate := api.NewGenerateHandler(s.deps.Service, s.logger, s.config.MaxBodyBytes)
	mux.Handle("/v1/generate", authn.Handle(generate))

	mux.Handle("/healthz", api.NewHealthHandler())
	mux.Handle("/readyz", api.NewReadyHandler(s.deps.ReadyChecks...))
	if s.deps.Metrics != nil {
		mux.Handle("/metrics", s.deps.Metrics)
	}

	var handler http.Handler = mux
	handler = middleware.Timeout(s.config.RequestTimeout)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
