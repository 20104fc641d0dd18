// Package telemetry groups quill's observability packages.
//
// # Overview
//
// Each concern lives in its own subpackage and is constructed and wired
// independently at startup:
//
//   - logging: structured slog logging with argument redaction
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry distributed tracing
//
// There is no shared telemetry object; components receive the logger,
// collector, and tracer they need as explicit dependencies.
//
// # Content Protection
//
// All three subpackages observe the same rule as the request pipeline:
// prompt, page context, and completion text never leave the process
// through a telemetry sink. Log arguments pass through the configured
// redactor, metrics carry only counts and label values from a bounded
// set, and spans record fingerprint prefixes rather than inputs.
package telemetry
