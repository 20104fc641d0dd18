package providers

import "context"

// Provider is the interface the orchestrator calls to obtain a
// completion.
//
// Complete issues exactly one request: there is no retry, and the
// implementation enforces its own connect and overall timeouts
// independently of ctx. Implementations must reject a request containing
// sensitive content with *SecurityError before any network I/O.
type Provider interface {
	// Complete sends one chat-completion request and returns the
	// normalized response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// GetName returns the provider's configured name.
	GetName() string

	// IsHealthy returns the provider's current health status, derived
	// from recent request outcomes.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() ProviderHealth

	// Close releases the provider's resources. After Close the provider
	// must not be used.
	Close() error
}
