package assist

import (
	"context"
	"errors"

	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/quota"
	"pagecraft/quill/pkg/security/auth"
)

// OutcomeFor maps an error returned by Generate to the outcome string
// recorded in the ledger and in metrics. A nil error is OutcomeOK.
func OutcomeFor(err error) string {
	if err == nil {
		return ledger.OutcomeOK
	}

	var (
		securityErr   *providers.SecurityError
		validationErr *providers.ValidationError
		authzErr      *auth.AuthorizationError
		quotaErr      *quota.QuotaError
		timeoutErr    *providers.TimeoutError
		rateLimitErr  *providers.RateLimitError
		authErr       *providers.AuthError
		parseErr      *providers.ParseError
		configErr     *providers.ConfigError
		providerErr   *providers.ProviderError
	)

	switch {
	case errors.As(err, &securityErr):
		return ledger.OutcomeSecurity
	case errors.As(err, &validationErr):
		return ledger.OutcomeValidation
	case errors.As(err, &authzErr):
		return ledger.OutcomeAuthorization
	case errors.As(err, &quotaErr):
		return ledger.OutcomeQuota
	case errors.As(err, &timeoutErr):
		return ledger.OutcomeTimeout
	case errors.As(err, &rateLimitErr):
		// Provider-side throttling is a provider failure from the
		// caller's point of view; the space's own quota is OutcomeQuota.
		return ledger.OutcomeProvider
	case errors.As(err, &authErr):
		return ledger.OutcomeAuth
	case errors.As(err, &parseErr):
		return ledger.OutcomeParse
	case errors.As(err, &configErr):
		return ledger.OutcomeConfig
	case errors.As(err, &providerErr):
		return ledger.OutcomeProvider
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ledger.OutcomeAbandoned
	default:
		return ledger.OutcomeInternal
	}
}

// errorKind maps a provider call error to the error_type label on
// provider error metrics.
func errorKind(err error) string {
	var (
		securityErr  *providers.SecurityError
		rateLimitErr *providers.RateLimitError
		timeoutErr   *providers.TimeoutError
		authErr      *providers.AuthError
		parseErr     *providers.ParseError
		providerErr  *providers.ProviderError
	)

	switch {
	case errors.As(err, &securityErr):
		return "security"
	case errors.As(err, &rateLimitErr):
		return "rate_limit"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &providerErr):
		return "server_error"
	default:
		return "other"
	}
}
