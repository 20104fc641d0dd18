package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Custom attribute keys use the "quill." namespace. Content never
// appears in attributes; fingerprints are truncated to their prefix
// before being attached.
const (
	AttrSpace       = "quill.space"
	AttrPage        = "quill.page"
	AttrModel       = "quill.model"
	AttrProvider    = "quill.provider"
	AttrRequestID   = "quill.request_id"
	AttrFingerprint = "quill.fingerprint"
	AttrCacheHit    = "quill.cache.hit"
	AttrOutcome     = "quill.outcome"

	AttrTokensPrompt     = "quill.tokens.prompt"
	AttrTokensCompletion = "quill.tokens.completion"
)

// SetGenerationAttributes sets the identifying attributes of a
// generation span. Empty values are skipped.
func SetGenerationAttributes(span trace.Span, spaceKey, pageID, model string) {
	attrs := make([]attribute.KeyValue, 0, 3)
	if spaceKey != "" {
		attrs = append(attrs, attribute.String(AttrSpace, spaceKey))
	}
	if pageID != "" {
		attrs = append(attrs, attribute.String(AttrPage, pageID))
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrModel, model))
	}
	span.SetAttributes(attrs...)
}

// SetFingerprintAttribute attaches a fingerprint prefix to a span. The
// caller is expected to truncate the fingerprint first.
func SetFingerprintAttribute(span trace.Span, prefix string) {
	if prefix != "" {
		span.SetAttributes(attribute.String(AttrFingerprint, prefix))
	}
}

// SetCacheAttribute records whether the span's result came from cache.
func SetCacheAttribute(span trace.Span, hit bool) {
	span.SetAttributes(attribute.Bool(AttrCacheHit, hit))
}

// SetOutcomeAttribute records the terminal outcome of the operation.
func SetOutcomeAttribute(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
}

// SetProviderAttributes sets provider call attributes on a span.
func SetProviderAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetTokenAttributes sets provider-reported token counts on a span.
func SetTokenAttributes(span trace.Span, promptTokens, completionTokens int) {
	span.SetAttributes(
		attribute.Int(AttrTokensPrompt, promptTokens),
		attribute.Int(AttrTokensCompletion, completionTokens),
	)
}

// SetRequestIDAttribute attaches the request correlation ID to a span.
func SetRequestIDAttribute(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
}
