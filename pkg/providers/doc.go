// Package providers defines the completion client core: the provider
// interface, the shared HTTP machinery, and the typed error taxonomy the
// rest of quill dispatches on.
//
// # Overview
//
// A Provider issues exactly one chat-completion request per Complete call
// and maps the outcome into quill's error types:
//
//   - *SecurityError: sensitive content detected in the request; the
//     request was never sent
//   - *TimeoutError: no response within the client's own bound
//   - *AuthError: the provider rejected the API credential (401/403)
//   - *RateLimitError: the provider throttled the request (429)
//   - *ProviderError: any other non-success response or transport failure
//   - *ParseError: the response body did not match the expected structure
//   - *ValidationError: the request was rejected before any network I/O
//
// There is no retry at this layer. A failed call fails; retry policy, if
// any, belongs to the caller above quill.
//
// # Timeouts
//
// The HTTP client enforces two bounds independently of the caller's
// context: a connect timeout covering dial and TLS handshake, and an
// overall request timeout. A caller context that outlives both has no
// effect; one that is cancelled earlier aborts the call as usual.
//
// Concrete adapters (pkg/providers/openai) embed HTTPClient and implement
// Provider.
package providers
