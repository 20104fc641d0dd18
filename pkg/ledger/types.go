package ledger

import (
	"context"
	"time"
)

// Record is one row of the generation ledger: the accounting outcome of
// a single orchestrated request. It carries identifiers, counters, and
// classifications only. Prompt, page context, and completion text are
// never stored; the fingerprint is the only trace of the inputs.
type Record struct {
	// ID is a UUID v4 assigned by the recorder.
	ID string `json:"id"`

	// RequestID ties the record to the HTTP request logs.
	RequestID string `json:"request_id"`

	// Timestamp is when the orchestration finished.
	Timestamp time.Time `json:"timestamp"`

	// Fingerprint is the cache fingerprint of the redacted request.
	Fingerprint string `json:"fingerprint"`

	// SpaceKey identifies the space the request was made for.
	SpaceKey string `json:"space_key"`

	// PageID identifies the page, when the host supplied one.
	PageID string `json:"page_id"`

	// Model is the model the request named.
	Model string `json:"model"`

	// Outcome is "ok" or the error kind that ended the request.
	Outcome string `json:"outcome"`

	// ServedFromCache is true when no provider call was made.
	ServedFromCache bool `json:"served_from_cache"`

	// LatencyMS is the end-to-end orchestration latency.
	LatencyMS int64 `json:"latency_ms"`

	// PromptTokens and CompletionTokens are the provider-reported token
	// counts. Zero for cache hits, failures, and requests that shared
	// another request's provider call; token metrics carry the
	// authoritative totals.
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`

	// Detected lists redaction class names that matched the inputs.
	// Matched values are never recorded.
	Detected []string `json:"detected"`
}

// Outcome values recorded per orchestration.
const (
	OutcomeOK            = "ok"
	OutcomeSecurity      = "security_error"
	OutcomeValidation    = "validation_error"
	OutcomeAuthorization = "authorization_error"
	OutcomeQuota         = "quota_error"
	OutcomeProvider      = "provider_error"
	OutcomeAuth          = "auth_error"
	OutcomeTimeout       = "timeout_error"
	OutcomeParse         = "parse_error"
	OutcomeConfig        = "config_error"
	OutcomeInternal      = "internal_error"

	// OutcomeAbandoned marks a request whose caller went away while the
	// provider call was still in flight. The call itself completes and
	// its response is cached for the next request.
	OutcomeAbandoned = "abandoned"
)

// Store defines the interface for ledger storage backends.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// Append persists a record.
	Append(ctx context.Context, record *Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes records with a timestamp before cutoff and
	// returns the number removed. A positive limit caps the removal at
	// that many rows, oldest first, so retention can delete in batches.
	DeleteBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
