package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/quota"
	"pagecraft/quill/pkg/security/auth"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &providers.ValidationError{Field: "prompt", Message: "required"}, http.StatusBadRequest},
		{"authorization", &auth.AuthorizationError{Subject: "u1", SpaceKey: "HR", Reason: "denied"}, http.StatusForbidden},
		{"security", &providers.SecurityError{Provider: "openai", Detected: []string{"email"}}, http.StatusUnprocessableEntity},
		{"quota", &quota.QuotaError{SpaceKey: "ENG", Used: 200, Limit: 200}, http.StatusTooManyRequests},
		{"timeout", &providers.TimeoutError{Provider: "openai", Timeout: time.Second}, http.StatusGatewayTimeout},
		{"context deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"context canceled", context.Canceled, http.StatusGatewayTimeout},
		{"provider", &providers.ProviderError{Provider: "openai", StatusCode: 500}, http.StatusBadGateway},
		{"provider rate limit", &providers.RateLimitError{Provider: "openai"}, http.StatusBadGateway},
		{"provider auth", &providers.AuthError{Provider: "openai", Message: "bad key"}, http.StatusBadGateway},
		{"parse", &providers.ParseError{Provider: "openai"}, http.StatusBadGateway},
		{"wrapped validation", fmt.Errorf("generate: %w", &providers.ValidationError{Field: "model"}), http.StatusBadRequest},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("writes the envelope with kind and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)

		WriteError(w, r, &providers.SecurityError{
			Provider: "openai",
			Detected: []string{"government_id", "email"},
		})

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if resp.Error.Kind != "security_error" {
			t.Errorf("kind = %q, want security_error", resp.Error.Kind)
		}
		if resp.Error.Message == "" {
			t.Error("message should not be empty")
		}
	})

	t.Run("unknown errors collapse to a generic 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)

		WriteError(w, r, errors.New("pq: connection reset by peer"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if resp.Error.Kind != "internal_error" {
			t.Errorf("kind = %q, want internal_error", resp.Error.Kind)
		}
		if resp.Error.Message != internalMessage {
			t.Errorf("message = %q; internal details must not reach the client", resp.Error.Message)
		}
	})

	t.Run("context expiry reads as a timeout", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)

		WriteError(w, r, fmt.Errorf("generate: %w", context.DeadlineExceeded))

		if w.Code != http.StatusGatewayTimeout {
			t.Fatalf("status = %d, want 504", w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if resp.Error.Kind != "timeout_error" {
			t.Errorf("kind = %q, want timeout_error", resp.Error.Kind)
		}
	})

	t.Run("quota exhaustion advertises Retry-After", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)

		WriteError(w, r, &quota.QuotaError{
			SpaceKey: "ENG",
			Used:     200,
			Limit:    200,
			Reset:    time.Now().Add(3 * time.Hour),
		})

		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("status = %d, want 429", w.Code)
		}
		if w.Header().Get("Retry-After") == "" {
			t.Error("Retry-After header should be set")
		}
	})

	t.Run("provider throttling advertises Retry-After", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)

		WriteError(w, r, &providers.RateLimitError{
			Provider:   "openai",
			RetryAfter: 30 * time.Second,
		})

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", w.Code)
		}
		if got := w.Header().Get("Retry-After"); got != "30" {
			t.Errorf("Retry-After = %q, want 30", got)
		}
	})
}
