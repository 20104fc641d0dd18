package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	providertest "pagecraft/quill/internal/providers"
	"pagecraft/quill/pkg/assist"
	"pagecraft/quill/pkg/cache"
	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/security/auth"
	"pagecraft/quill/pkg/security/redact"
	"pagecraft/quill/pkg/telemetry/logging"
)

// newTestHandler builds a generation handler backed by a mock
// provider. Requests pass through the auth middleware so the caller
// identity headers work as they do in production.
func newTestHandler(t *testing.T, maxBody int64) (http.Handler, *providertest.MockProvider) {
	t.Helper()

	mock := providertest.NewMockProvider("openai", "generated text")
	svc, err := assist.New(assist.Config{}, assist.Dependencies{
		Validator: redact.NewValidator(),
		Provider:  mock,
		Cache:     cache.New(cache.Config{TTL: time.Minute, Capacity: 100}),
	})
	if err != nil {
		t.Fatalf("assist.New: %v", err)
	}

	handler := NewGenerateHandler(svc, logging.NewNop(), maxBody)
	authn := auth.NewMiddleware(auth.MiddlewareConfig{})
	return authn.Handle(handler), mock
}

// postGenerate sends a generation request with the caller identity
// header set.
func postGenerate(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.DefaultUserHeader, "u123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the error envelope: %v\nbody: %s", err, w.Body.String())
	}
	return resp.Error
}

func TestGenerateHandler_Success(t *testing.T) {
	handler, mock := newTestHandler(t, 0)

	w := postGenerate(handler, `{"prompt":"summarize this page","context":"page text","space_key":"ENG","page_id":"12345"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}

	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Content != "generated text" {
		t.Errorf("content = %q, want %q", resp.Content, "generated text")
	}
	if resp.ServedFromCache {
		t.Error("first request should not be served from cache")
	}
	if mock.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1", mock.Calls())
	}
}

func TestGenerateHandler_CacheHit(t *testing.T) {
	handler, mock := newTestHandler(t, 0)
	body := `{"prompt":"summarize this page","space_key":"ENG"}`

	first := postGenerate(handler, body)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}

	second := postGenerate(handler, body)
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d, want 200", second.Code)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.ServedFromCache {
		t.Error("repeat request should be served from cache")
	}
	if resp.SourceLatencyMS != 0 {
		t.Errorf("source_latency_ms = %d, want 0 on a cache hit", resp.SourceLatencyMS)
	}
	if mock.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1", mock.Calls())
	}
}

func TestGenerateHandler_RequestID(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/v1/generate",
		strings.NewReader(`{"prompt":"hello","space_key":"ENG"}`))
	req.Header.Set(auth.DefaultUserHeader, "u123")
	req = req.WithContext(logging.WithRequestID(req.Context(), "req-321"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RequestID != "req-321" {
		t.Errorf("request_id = %q, want req-321", resp.RequestID)
	}
}

func TestGenerateHandler_Refusals(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "empty prompt",
			body:       `{"prompt":"","space_key":"ENG"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation_error",
		},
		{
			name:       "missing space key",
			body:       `{"prompt":"hello"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation_error",
		},
		{
			name:       "model outside the allow-list",
			body:       `{"prompt":"hello","space_key":"ENG","model":"claude-3"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation_error",
		},
		{
			name:       "sensitive content",
			body:       `{"prompt":"my ssn is 123-45-6789","space_key":"ENG"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "security_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler(t, 0)
			w := postGenerate(handler, tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d\nbody: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			detail := decodeError(t, w)
			if detail.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", detail.Kind, tt.wantKind)
			}
		})
	}
}

func TestGenerateHandler_NeverEchoesContent(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	// A refused request containing a detectable secret. Neither the
	// prompt nor the secret may appear anywhere in the response.
	w := postGenerate(handler, `{"prompt":"my ssn is 123-45-6789","space_key":"ENG"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "123-45-6789") {
		t.Error("response echoed the detected secret")
	}
	if strings.Contains(body, "my ssn") {
		t.Error("response echoed the submitted prompt")
	}
}

func TestGenerateHandler_ProviderFailure(t *testing.T) {
	handler, mock := newTestHandler(t, 0)
	mock.SetError(&providers.ProviderError{
		Provider:   "openai",
		StatusCode: 500,
		Message:    "upstream exploded",
	})

	w := postGenerate(handler, `{"prompt":"hello","space_key":"ENG"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if detail := decodeError(t, w); detail.Kind != "provider_error" {
		t.Errorf("kind = %q, want provider_error", detail.Kind)
	}
}

func TestGenerateHandler_NoCaller(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	// No identity header at all.
	req := httptest.NewRequest(http.MethodPost, "/v1/generate",
		strings.NewReader(`{"prompt":"hello","space_key":"ENG"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if detail := decodeError(t, w); detail.Kind != "authorization_error" {
		t.Errorf("kind = %q, want authorization_error", detail.Kind)
	}
}

func TestGenerateHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/v1/generate", nil)
	req.Header.Set(auth.DefaultUserHeader, "u123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	if detail := decodeError(t, w); detail.Kind != "validation_error" {
		t.Errorf("kind = %q, want validation_error", detail.Kind)
	}
}

func TestGenerateHandler_MalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	w := postGenerate(handler, `{"prompt": not json`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	detail := decodeError(t, w)
	if detail.Kind != "validation_error" {
		t.Errorf("kind = %q, want validation_error", detail.Kind)
	}
	if strings.Contains(detail.Message, "not json") {
		t.Error("error message echoed the malformed body")
	}
}

func TestGenerateHandler_BodyTooLarge(t *testing.T) {
	handler, mock := newTestHandler(t, 64)

	big := strings.Repeat("a", 256)
	w := postGenerate(handler, `{"prompt":"`+big+`","space_key":"ENG"}`)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	if mock.Calls() != 0 {
		t.Errorf("provider calls = %d, want 0", mock.Calls())
	}
}
