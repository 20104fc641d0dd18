package auth

import "context"

// Context key for the authenticated caller
type contextKey string

const callerKey contextKey = "quill_caller"

// WithCaller returns a context carrying the caller identity.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom retrieves the caller identity from the context.
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	return caller, ok
}
