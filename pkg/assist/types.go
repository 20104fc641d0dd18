package assist

import "time"

// GenerationRequest is one writing-assist request from the host. It is
// immutable once constructed: the service reads it and never writes it
// back.
type GenerationRequest struct {
	// Prompt is the user's instruction.
	Prompt string

	// Context is the page content the prompt applies to. May be empty.
	Context string

	// Model is the target model identifier. Empty selects the
	// configured default. The identifier must be on the allow-list.
	Model string

	// SpaceKey identifies the space the request is made for. It is
	// passed to the authorizer and the quota tracker, never
	// interpreted by the service itself.
	SpaceKey string

	// PageID identifies the page, when the host supplies one. Opaque
	// to the service; passed to the authorizer and recorded in the
	// ledger for audit.
	PageID string
}

// GenerationResult is the outcome of one successful generation.
type GenerationResult struct {
	// Content is the generated text.
	Content string

	// SourceLatency is how long the provider call took. Zero when the
	// result was served from cache.
	SourceLatency time.Duration

	// ServedFromCache is true when no provider call was made.
	ServedFromCache bool

	// Model is the effective model used, after default substitution.
	Model string

	// Fingerprint is the cache key the request resolved to.
	Fingerprint string
}
