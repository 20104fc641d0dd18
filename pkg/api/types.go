package api

// GenerateRequest is the JSON body accepted by POST /v1/generate.
type GenerateRequest struct {
	// Prompt is the caller's instruction. Required.
	Prompt string `json:"prompt"`

	// Context is surrounding page text the completion should take
	// into account. Optional.
	Context string `json:"context,omitempty"`

	// Model selects a model from the allow-list. Empty means the
	// configured default.
	Model string `json:"model,omitempty"`

	// SpaceKey identifies the space the request originates from.
	// Required; authorization and quota accounting key on it.
	SpaceKey string `json:"space_key"`

	// PageID identifies the page. It is passed to the authorizer and
	// recorded in the ledger. Optional.
	PageID string `json:"page_id,omitempty"`
}

// GenerateResponse is the JSON body of a successful generation.
type GenerateResponse struct {
	// Content is the generated text.
	Content string `json:"content"`

	// SourceLatencyMS is how long the provider call took, in
	// milliseconds. Zero when the response was served from cache.
	SourceLatencyMS int64 `json:"source_latency_ms"`

	// ServedFromCache reports whether the response came from the
	// completion cache rather than a fresh provider call.
	ServedFromCache bool `json:"served_from_cache"`

	// RequestID echoes the ID assigned to this request for log
	// correlation.
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is the JSON envelope for every error the API returns.
// It never carries any of the submitted text.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a single API error.
type ErrorDetail struct {
	// Kind is a stable machine-readable error class, e.g.
	// "validation_error" or "security_error".
	Kind string `json:"kind"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// RequestID echoes the ID assigned to the failed request.
	RequestID string `json:"request_id,omitempty"`
}
