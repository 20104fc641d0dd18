package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// Default header names the host uses to pass the caller identity.
const (
	DefaultUserHeader = "X-Quill-User"
	DefaultNameHeader = "X-Quill-User-Name"
)

// MiddlewareConfig configures the host authentication middleware.
type MiddlewareConfig struct {
	// ExpectedToken returns the shared token requests must present as
	// a bearer credential. A nil func disables the token check.
	ExpectedToken func(ctx context.Context) (string, error)

	// UserHeader carries the caller's subject. Defaults to
	// DefaultUserHeader.
	UserHeader string

	// NameHeader carries the caller's display name. Defaults to
	// DefaultNameHeader.
	NameHeader string
}

// Middleware authenticates requests from the host. It verifies the
// shared bearer token when one is configured and places the caller
// identity from the host headers onto the request context. Requests
// without identity headers pass through without a caller; enforcement
// happens in the generation service.
type Middleware struct {
	config MiddlewareConfig
}

// NewMiddleware creates a host authentication middleware.
func NewMiddleware(config MiddlewareConfig) *Middleware {
	if config.UserHeader == "" {
		config.UserHeader = DefaultUserHeader
	}
	if config.NameHeader == "" {
		config.NameHeader = DefaultNameHeader
	}
	return &Middleware{config: config}
}

// Handle wraps an HTTP handler with host authentication.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.config.ExpectedToken != nil {
			expected, err := m.config.ExpectedToken(r.Context())
			if err != nil {
				slog.Error("auth token unavailable", "error", err)
				http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
				return
			}

			presented := bearerToken(r)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
				slog.Warn("rejected request with invalid token",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				http.Error(w, "Invalid or missing token", http.StatusUnauthorized)
				return
			}
		}

		subject := r.Header.Get(m.config.UserHeader)
		if subject != "" {
			caller := Caller{
				Subject:     subject,
				DisplayName: r.Header.Get(m.config.NameHeader),
			}
			r = r.WithContext(WithCaller(r.Context(), caller))

			slog.Debug("caller authenticated",
				"subject", caller.Subject,
				"path", r.URL.Path,
			)
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the bearer credential from the Authorization
// header.
func bearerToken(r *http.Request) string {
	value := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(value, prefix) {
		return strings.TrimPrefix(value, prefix)
	}
	return ""
}
