package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout arms a deadline on the request context. Handlers observe
// the expiry through their context; the generation service unwinds on
// cancellation and the error mapping turns it into a 504. A
// non-positive duration disables the deadline.
//
// The server-side budget should exceed the provider client's own
// request timeout so provider timeouts surface as such instead of as
// cancelled handlers.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
