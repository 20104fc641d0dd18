// Package tokens provides character-based token estimation.
//
// The estimator uses model-specific characters-per-token ratios to
// approximate prompt size before a request is sent. It exists to enforce
// the input token budget cheaply (<1ms, no tokenizer dependency); the
// provider's reported usage remains the source of truth after the call.
package tokens
