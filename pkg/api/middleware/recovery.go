package middleware

import (
	"net/http"
	"runtime/debug"

	"pagecraft/quill/pkg/api"
	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/telemetry/logging"
)

// Recovery converts handler panics into 500 responses. The panic
// value and stack trace go to the log; the client sees only the
// generic error envelope.
func Recovery(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					// Recovery sits outside the request ID middleware,
					// so the context has no ID here. The response
					// header already does.
					requestID := w.Header().Get(RequestIDHeader)

					logger.ErrorContext(r.Context(), "panic in handler",
						"panic", v,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", requestID,
						"stack", string(debug.Stack()),
					)

					api.WriteErrorBody(w, http.StatusInternalServerError,
						ledger.OutcomeInternal,
						"An internal error occurred. Please try again later.",
						requestID)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
