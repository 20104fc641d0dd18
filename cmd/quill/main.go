// Quill is the backend mediation layer between PageCraft and its
// generative text provider.
//
// It accepts drafting requests from embedding hosts and provides:
//   - Sensitive content screening before any text leaves the boundary
//   - Model allow-listing and per-space daily quotas
//   - Fingerprint-keyed response caching with request coalescing
//   - A persistent accounting ledger (no prompt or completion text)
//   - Prometheus metrics and OpenTelemetry tracing
//
// Usage:
//
//	# Start server with default configuration
//	quill run
//
//	# Start with custom configuration file
//	quill run --config /path/to/config.yaml
//
//	# Show version information
//	quill version
//
//	# Validate a configuration file
//	quill validate --config /path/to/config.yaml
//
//	# Screen a file (or stdin) the way the request path would
//	quill redact notes.txt
//
//	# Run ledger retention once, outside the cron schedule
//	quill ledger prune
package main

func main() {
	Execute()
}
