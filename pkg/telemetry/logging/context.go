package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// CallerKey is the context key for the host-supplied caller identifier.
	CallerKey contextKey = "caller"

	// SpaceKey is the context key for space identifiers.
	SpaceKey contextKey = "space"

	// ModelKey is the context key for model names.
	ModelKey contextKey = "model"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithCaller adds a caller identifier to the context.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCaller retrieves the caller identifier from the context.
func GetCaller(ctx context.Context) string {
	if caller, ok := ctx.Value(CallerKey).(string); ok {
		return caller
	}
	return ""
}

// WithSpace adds a space key to the context.
func WithSpace(ctx context.Context, space string) context.Context {
	return context.WithValue(ctx, SpaceKey, space)
}

// GetSpace retrieves the space key from the context.
func GetSpace(ctx context.Context) string {
	if space, ok := ctx.Value(SpaceKey).(string); ok {
		return space
	}
	return ""
}

// WithModel adds a model name to the context.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ModelKey, model)
}

// GetModel retrieves the model name from the context.
func GetModel(ctx context.Context) string {
	if model, ok := ctx.Value(ModelKey).(string); ok {
		return model
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if caller := GetCaller(ctx); caller != "" {
		fields = append(fields, "caller", caller)
	}
	if space := GetSpace(ctx); space != "" {
		fields = append(fields, "space", space)
	}
	if model := GetModel(ctx); model != "" {
		fields = append(fields, "model", model)
	}

	return fields
}
