package providers

import (
	"context"
	"time"
)

// Message represents a single message in a chat-completion request.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens used (prompt + completion)
	TotalTokens int `json:"total_tokens"`
}

// CompletionRequest is quill's request to a provider. Prompt and Context
// are combined into the provider's message shape by the adapter; token
// and sampling limits come from configuration, never from the caller.
type CompletionRequest struct {
	// Prompt is the user's instruction
	Prompt string

	// Context is the page content the prompt applies to (may be empty)
	Context string

	// Model is the target model identifier
	Model string
}

// CompletionResponse is the normalized provider reply.
type CompletionResponse struct {
	// ID is the provider's response identifier
	ID string

	// Model is the model that generated the response
	Model string

	// Content is the generated text
	Content string

	// FinishReason indicates why generation stopped
	// (stop, length, content_filter)
	FinishReason string

	// Usage contains token consumption information
	Usage TokenUsage

	// Created is the Unix timestamp when the response was created
	Created int64
}

// ProviderHealth tracks the health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy
	IsHealthy bool

	// LastCheck is the timestamp of the last status update
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy)
	LastError error

	// ConsecutiveFailures counts sequential request failures
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last successful request
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of requests sent to this provider
	TotalRequests int64

	// FailedRequests is the total number of failed requests
	FailedRequests int64
}

// ClientConfig contains configuration for the HTTP client core.
type ClientConfig struct {
	// Name is the provider identifier used in errors and logs
	Name string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// ConnectTimeout bounds dial and TLS handshake (default 10s)
	ConnectTimeout time.Duration

	// RequestTimeout bounds the whole request (default 30s)
	RequestTimeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Default client timeouts.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// SecretSource resolves named secrets from the host's settings store.
// pkg/security/secrets provides the production implementation.
type SecretSource interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Detector reports whether text contains sensitive data.
// pkg/security/redact provides the production implementation.
type Detector interface {
	ContainsSensitive(text string) bool
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
