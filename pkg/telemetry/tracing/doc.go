// Package tracing provides OpenTelemetry distributed tracing for Quill.
//
// # Overview
//
// The tracing package creates spans for the generation pipeline and
// exports them to an OTLP gRPC collector. W3C Trace Context carried by
// the embedding application is honored, so a generation shows up as a
// child of the host request that triggered it.
//
// When tracing is disabled (the default), New returns a noop tracer and
// span creation costs almost nothing.
//
// # Usage
//
//	cfg := &config.TracingConfig{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "quill",
//	    SampleRatio: 0.1,
//	    Insecure:    true,
//	}
//	tracer, err := tracing.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "assist.generate")
//	defer span.End()
//	tracing.SetGenerationAttributes(span, spaceKey, pageID, model)
//
// # Span Hierarchy
//
// A cache miss produces two spans:
//
//	assist.generate (1.2s)
//	└── assist.complete (1.19s)
//
// A cache hit produces only the outer span. A coalesced request attaches
// no inner span of its own; the leader's assist.complete covers the
// shared provider call.
//
// # Attributes
//
// Custom attributes live under the "quill." namespace. Prompt and page
// content never appear in span attributes, and fingerprints are
// truncated to a prefix before being attached.
//
// # Sampling
//
// Sampling is parent-based: a request already sampled upstream stays
// sampled, and new root traces are sampled at the configured ratio.
//
// # HTTP Integration
//
// Extract trace context from an incoming request before starting spans:
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	ctx, span := tracer.Start(ctx, "handle_request")
//	defer span.End()
package tracing
