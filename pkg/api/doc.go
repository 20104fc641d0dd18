// Package api implements the HTTP surface of the generation service.
//
// The surface is deliberately small: one generation endpoint plus
// probes. Routing and the middleware chain are assembled by
// pkg/server; this package owns the handlers, the wire types, and the
// error mapping.
//
// # Endpoints
//
//   - POST /v1/generate — run a generation request through the
//     service. Body: {prompt, context, model, space_key, page_id}.
//     Success: 200 {content, source_latency_ms, served_from_cache,
//     request_id}.
//   - GET /healthz — liveness.
//   - GET /readyz — readiness; runs the registered ReadyChecks.
//
// # Error mapping
//
// Generation errors map onto HTTP statuses by type:
//
//	validation        400
//	authorization     403
//	sensitive content 422
//	quota exhausted   429 (Retry-After set)
//	provider failure  502
//	timeout           504
//	anything else     500
//
// Every error uses the same envelope, {"error": {"kind", "message",
// "request_id"}}, and never contains the submitted prompt or context.
package api
