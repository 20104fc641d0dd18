// Package logging provides structured logging for the quill service.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Pluggable redaction of sensitive argument values before they are
//     written (satisfied by pkg/security/redact)
//   - Context-aware logging with request IDs and caller metadata
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("generation served",
//	    "request_id", "req-123",
//	    "model", "gpt-3.5-turbo",
//	    "cached", true,
//	)
//
//	// Context-aware logging
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "lookup complete") // includes request_id
//
// # Redaction
//
// When a Redactor is configured, every argument list passes through it
// before reaching the handler, so values that look like secrets or
// personal data never appear in log output even when logged by mistake.
// Prompt and response bodies are never logged at any level.
package logging
