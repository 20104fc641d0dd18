package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"pagecraft/quill/pkg/telemetry/logging"
)

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a unique ID. A client-supplied
// X-Request-ID is honored so the host application can correlate its
// own logs with ours. The ID is placed on the request context, where
// the logger and the ledger pick it up, and echoed in the response
// header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
