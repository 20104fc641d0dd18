// Package server owns the HTTP listener for the generation service.
//
// It assembles the routes from pkg/api, wraps them in the middleware
// chain, and manages the http.Server lifecycle. Start blocks until
// the context is cancelled, then drains in-flight requests within the
// configured shutdown timeout.
//
// # Basic Usage
//
//	srv, err := server.New(&cfg.Server, server.Dependencies{
//	    Service: service,
//	    Logger:  logger,
//	    Metrics: collector.Handler(),
//	})
//	if err != nil {
//	    return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Start(ctx)
//
// # Routes
//
//   - POST /v1/generate — generation endpoint; behind the shared host
//     token when one is configured, with caller identity read from
//     the X-Quill-User headers
//   - GET /healthz — liveness probe, always 200
//   - GET /readyz — readiness probe, runs the registered checks
//   - GET /metrics — Prometheus registry, when metrics are enabled
//
// # Middleware Chain
//
// Requests pass through, outermost first:
//
//  1. Recovery: panics become logged 500s
//  2. RequestID: assign or honor X-Request-ID
//  3. Logging: one line per request, never bodies
//  4. Timeout: server-side deadline on the request context
//  5. auth: shared-token check and caller extraction, generation
//     endpoint only
//
// Probes and /metrics stay outside the token check so the platform
// can always reach them.
package server
