// Package redact detects and removes sensitive data from text before it
// leaves the process.
//
// # Overview
//
// The redact package is quill's content validator. Every prompt and every
// piece of page context passes through it before a fingerprint is computed
// or an external call is issued:
//   - ContainsSensitive reports whether any sensitive pattern matches
//   - Filter replaces every match with the fixed marker "[REDACTED]"
//   - Scan reports which pattern classes matched, without exposing values
//
// Built-in pattern classes cover government ID numbers, payment card
// numbers, email addresses, and credential assignments such as
// "password: ..." or "api_key=..." (case-insensitive). Additional classes
// can be merged in from a YAML file, and a Watcher can reload that file
// on change without restarting the service.
//
// # Behavior
//
// Patterns are applied one class at a time over the whole text, with
// non-overlapping left-to-right replacement within a class. A later class
// may match text already rewritten by an earlier one. Filtering is
// idempotent: the marker itself never matches any built-in class, so
// Filter(Filter(x)) == Filter(x).
//
// Detection is a hard stop on the completion path: a request containing
// sensitive data is rejected, not silently redacted and forwarded.
// Filter exists for the values quill retains (cache keys, log fields),
// where redaction before storage is the defense.
//
// # Usage
//
//	v := redact.NewValidator()
//	v.ContainsSensitive("card 4111 1111 1111 1111") // true
//	v.Filter("mail me at bob@example.com")          // "mail me at [REDACTED]"
package redact
