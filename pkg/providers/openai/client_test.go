package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	testhelpers "pagecraft/quill/internal/providers"
	"pagecraft/quill/pkg/providers"
)

func testProvider(t *testing.T, baseURL string, mutate func(*Config)) *Provider {
	t.Helper()

	config := Config{
		BaseURL: baseURL,
		Client:  testhelpers.TestClientConfig("openai", baseURL),
	}
	if mutate != nil {
		mutate(&config)
	}

	secrets := testhelpers.StaticSecrets{DefaultAPIKeyName: "test-key-123"}
	detector := &testhelpers.StaticDetector{Markers: []string{"CONFIDENTIAL"}}

	provider, err := NewProvider(config, secrets, detector)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestProvider_Complete(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/chat/completions", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.MockChatResponse("Here is a summary.", "gpt-4o-mini"),
	})

	provider := testProvider(t, mock.URL(), nil)

	resp, err := provider.Complete(context.Background(), &providers.CompletionRequest{
		Prompt:  "Summarize the page.",
		Context: "The page covers onboarding steps.",
		Model:   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != "Here is a summary." {
		t.Errorf("expected content %q, got %q", "Here is a summary.", resp.Content)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", resp.Model)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("expected total tokens 30, got %d", resp.Usage.TotalTokens)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, resp.FinishReason)
	}

	if got := mock.LastRequestHeader("Authorization"); got != "Bearer test-key-123" {
		t.Errorf("expected bearer token header, got %q", got)
	}
	if got := mock.LastRequestHeader("Content-Type"); got != "application/json" {
		t.Errorf("expected JSON content type, got %q", got)
	}

	var wire chatRequest
	if err := json.Unmarshal(mock.LastRequestBody(), &wire); err != nil {
		t.Fatalf("failed to decode wire request: %v", err)
	}
	if wire.N != 1 {
		t.Errorf("expected exactly one completion on the wire, got n=%d", wire.N)
	}
	if wire.Model != "gpt-4o-mini" {
		t.Errorf("expected wire model gpt-4o-mini, got %q", wire.Model)
	}
	if len(wire.Messages) != 2 {
		t.Fatalf("expected 2 wire messages, got %d", len(wire.Messages))
	}
	if wire.Messages[0].Role != providers.RoleSystem {
		t.Errorf("expected system message first, got role %q", wire.Messages[0].Role)
	}
	if !strings.Contains(wire.Messages[1].Content, "The page covers onboarding steps.") {
		t.Errorf("user message missing page context: %q", wire.Messages[1].Content)
	}
	if !strings.Contains(wire.Messages[1].Content, "Summarize the page.") {
		t.Errorf("user message missing prompt: %q", wire.Messages[1].Content)
	}
}

func TestProvider_SensitiveContentHardStop(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/chat/completions", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.MockChatResponse("should never arrive", "gpt-4o-mini"),
	})

	provider := testProvider(t, mock.URL(), nil)

	tests := []struct {
		name string
		req  *providers.CompletionRequest
		want string
	}{
		{
			name: "flagged prompt",
			req: &providers.CompletionRequest{
				Prompt: "Include the CONFIDENTIAL figures.",
				Model:  "gpt-4o-mini",
			},
			want: "prompt",
		},
		{
			name: "flagged context",
			req: &providers.CompletionRequest{
				Prompt:  "Summarize the page.",
				Context: "CONFIDENTIAL: acquisition terms",
				Model:   "gpt-4o-mini",
			},
			want: "context",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Complete(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected security error, got nil")
			}

			secErr, ok := err.(*providers.SecurityError)
			if !ok {
				t.Fatalf("expected SecurityError, got %T: %v", err, err)
			}
			if len(secErr.Detected) != 1 || secErr.Detected[0] != tt.want {
				t.Errorf("expected detected fields [%s], got %v", tt.want, secErr.Detected)
			}
		})
	}

	if count := mock.RequestCount(); count != 0 {
		t.Errorf("flagged requests must never reach the provider, got %d requests", count)
	}
}

func TestProvider_ValidationErrors(t *testing.T) {
	provider := testProvider(t, "http://localhost:0", nil)

	tests := []struct {
		name string
		req  *providers.CompletionRequest
	}{
		{name: "nil request", req: nil},
		{name: "empty model", req: &providers.CompletionRequest{Prompt: "hello"}},
		{name: "empty prompt", req: &providers.CompletionRequest{Model: "gpt-4o-mini"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Complete(context.Background(), tt.req)
			testhelpers.AssertErrorType(t, err, &providers.ValidationError{})
		})
	}
}

func TestProvider_TokenBudget(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	provider := testProvider(t, mock.URL(), func(c *Config) {
		c.InputTokenBudget = 50
	})

	_, err := provider.Complete(context.Background(), &providers.CompletionRequest{
		Prompt: strings.Repeat("expand this paragraph ", 100),
		Model:  "gpt-4o-mini",
	})
	testhelpers.AssertErrorType(t, err, &providers.ValidationError{})

	if count := mock.RequestCount(); count != 0 {
		t.Errorf("over-budget requests must not be sent, got %d requests", count)
	}
}

func TestProvider_SecretUnavailable(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	config := Config{
		BaseURL: mock.URL(),
		Client:  testhelpers.TestClientConfig("openai", mock.URL()),
	}
	provider, err := NewProvider(config, testhelpers.StaticSecrets{}, &testhelpers.StaticDetector{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.Complete(context.Background(), &providers.CompletionRequest{
		Prompt: "Summarize the page.",
		Model:  "gpt-4o-mini",
	})
	testhelpers.AssertErrorType(t, err, &providers.ConfigError{})

	if count := mock.RequestCount(); count != 0 {
		t.Errorf("requests without a key must not be sent, got %d requests", count)
	}
}

func TestProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		response testhelpers.MockResponse
		want     interface{}
	}{
		{name: "401 auth", response: testhelpers.MockAuthError(), want: &providers.AuthError{}},
		{name: "429 rate limit", response: testhelpers.MockRateLimitError(30), want: &providers.RateLimitError{}},
		{name: "500 server error", response: testhelpers.MockServerError(), want: &providers.ProviderError{}},
		{
			name:     "malformed body",
			response: testhelpers.MockResponse{StatusCode: http.StatusOK, Body: "not json"},
			want:     &providers.ParseError{},
		},
		{
			name: "empty choices",
			response: testhelpers.MockResponse{
				StatusCode: http.StatusOK,
				Body:       testhelpers.MockEmptyChoicesResponse("gpt-4o-mini"),
			},
			want: &providers.ProviderError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewMockServer()
			defer mock.Close()
			mock.SetResponse("/chat/completions", tt.response)

			provider := testProvider(t, mock.URL(), nil)

			_, err := provider.Complete(context.Background(), &providers.CompletionRequest{
				Prompt: "Summarize the page.",
				Model:  "gpt-4o-mini",
			})
			testhelpers.AssertErrorType(t, err, tt.want)
		})
	}
}

func TestProvider_RetryAfterParsed(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/chat/completions", testhelpers.MockRateLimitError(30))

	provider := testProvider(t, mock.URL(), nil)

	_, err := provider.Complete(context.Background(), &providers.CompletionRequest{
		Prompt: "Summarize the page.",
		Model:  "gpt-4o-mini",
	})

	rateErr, ok := err.(*providers.RateLimitError)
	if !ok {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rateErr.RetryAfter != 30*time.Second {
		t.Errorf("expected retry after 30s, got %s", rateErr.RetryAfter)
	}
}

func TestProvider_SingleAttempt(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/chat/completions", testhelpers.MockServerError())

	provider := testProvider(t, mock.URL(), nil)

	_, err := provider.Complete(context.Background(), &providers.CompletionRequest{
		Prompt: "Summarize the page.",
		Model:  "gpt-4o-mini",
	})
	testhelpers.AssertErrorType(t, err, &providers.ProviderError{})

	if count := mock.RequestCount(); count != 1 {
		t.Errorf("expected exactly one attempt, got %d", count)
	}
}

func TestProvider_Timeout(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/chat/completions", testhelpers.MockSlowResponse(500*time.Millisecond))

	provider := testProvider(t, mock.URL(), func(c *Config) {
		c.Client.RequestTimeout = 100 * time.Millisecond
	})

	_, err := provider.Complete(context.Background(), &providers.CompletionRequest{
		Prompt: "Summarize the page.",
		Model:  "gpt-4o-mini",
	})
	testhelpers.AssertErrorType(t, err, &providers.TimeoutError{})
}

func TestNewProvider_Validation(t *testing.T) {
	secrets := testhelpers.StaticSecrets{DefaultAPIKeyName: "k"}
	detector := &testhelpers.StaticDetector{}

	tests := []struct {
		name     string
		config   Config
		secrets  providers.SecretSource
		detector providers.Detector
		wantErr  bool
	}{
		{name: "defaults", config: Config{}, secrets: secrets, detector: detector},
		{name: "nil secrets", config: Config{}, secrets: nil, detector: detector, wantErr: true},
		{name: "nil detector", config: Config{}, secrets: secrets, detector: nil, wantErr: true},
		{name: "negative max tokens", config: Config{MaxTokens: -1}, secrets: secrets, detector: detector, wantErr: true},
		{name: "temperature too high", config: Config{Temperature: 3.5}, secrets: secrets, detector: detector, wantErr: true},
		{name: "negative budget", config: Config{InputTokenBudget: -10}, secrets: secrets, detector: detector, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config, tt.secrets, tt.detector)

			if tt.wantErr {
				testhelpers.AssertErrorType(t, err, &providers.ConfigError{})
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer provider.Close()

			if provider.config.BaseURL != DefaultBaseURL {
				t.Errorf("expected default base URL, got %q", provider.config.BaseURL)
			}
			if provider.config.APIKeyName != DefaultAPIKeyName {
				t.Errorf("expected default key name, got %q", provider.config.APIKeyName)
			}
			if provider.config.MaxTokens != DefaultMaxTokens {
				t.Errorf("expected default max tokens, got %d", provider.config.MaxTokens)
			}
			if provider.config.Temperature != DefaultTemperature {
				t.Errorf("expected default temperature, got %v", provider.config.Temperature)
			}
			if provider.GetName() != "openai" {
				t.Errorf("expected provider name openai, got %q", provider.GetName())
			}
		})
	}
}
