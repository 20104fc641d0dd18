package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pagecraft/quill/pkg/assist"
	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/quota"
	"pagecraft/quill/pkg/security/auth"
	"pagecraft/quill/pkg/telemetry/logging"
)

// internalMessage is what clients see for any error the API does not
// recognize. The real error stays in the logs.
const internalMessage = "An internal error occurred. Please try again later."

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a generation error onto an HTTP status code and
// writes the standard error envelope. Refusal errors keep their own
// message; anything unrecognized collapses to a generic 500 so
// internal details never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	setRetryAfter(w, err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = internalMessage
	}

	WriteErrorBody(w, status, kindFor(err), message, logging.GetRequestID(r.Context()))
}

// WriteErrorBody writes the standard error envelope with an explicit
// status and kind. Middleware uses it for failures that happen before
// a request reaches the generation service.
func WriteErrorBody(w http.ResponseWriter, status int, kind, message, requestID string) {
	WriteJSON(w, status, &ErrorResponse{
		Error: ErrorDetail{
			Kind:      kind,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// StatusFor maps a generation error to its HTTP status code.
func StatusFor(err error) int {
	var (
		validationErr *providers.ValidationError
		authzErr      *auth.AuthorizationError
		securityErr   *providers.SecurityError
		quotaErr      *quota.QuotaError
		timeoutErr    *providers.TimeoutError
		rateLimitErr  *providers.RateLimitError
		authErr       *providers.AuthError
		parseErr      *providers.ParseError
		providerErr   *providers.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &authzErr):
		return http.StatusForbidden
	case errors.As(err, &securityErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &quotaErr):
		return http.StatusTooManyRequests
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// The server-side request budget expired before the provider
		// answered. The detached provider call keeps running.
		return http.StatusGatewayTimeout
	case errors.As(err, &rateLimitErr),
		errors.As(err, &authErr),
		errors.As(err, &parseErr),
		errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// kindFor chooses the machine-readable error class for the envelope.
// It matches the ledger outcome vocabulary except for context expiry,
// which clients see as a timeout rather than an abandoned request.
func kindFor(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ledger.OutcomeTimeout
	}
	return assist.OutcomeFor(err)
}

// setRetryAfter advertises when a throttled caller may try again.
func setRetryAfter(w http.ResponseWriter, err error) {
	var quotaErr *quota.QuotaError
	if errors.As(err, &quotaErr) && !quotaErr.Reset.IsZero() {
		if seconds := int(time.Until(quotaErr.Reset).Seconds()); seconds > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		return
	}

	var rateLimitErr *providers.RateLimitError
	if errors.As(err, &rateLimitErr) && rateLimitErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitErr.RetryAfter.Seconds())))
	}
}
