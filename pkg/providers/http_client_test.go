package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPClient_SingleAttemptOn5xx(t *testing.T) {
	attemptCount := int32(0)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attemptCount, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "internal server error"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:           "test-provider",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	})
	defer client.Close()

	ctx := context.Background()
	resp, err := client.DoRequest(ctx, "POST", server.URL+"/test", []byte(`{"test": true}`), nil)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected error for 500 status, got nil")
	}

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if providerErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500 in error, got %d", providerErr.StatusCode)
	}

	if finalCount := atomic.LoadInt32(&attemptCount); finalCount != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", finalCount)
	}
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		errorType  string
	}{
		{
			name:       "400 bad request",
			statusCode: http.StatusBadRequest,
			errorType:  "ProviderError",
		},
		{
			name:       "401 unauthorized",
			statusCode: http.StatusUnauthorized,
			errorType:  "AuthError",
		},
		{
			name:       "403 forbidden",
			statusCode: http.StatusForbidden,
			errorType:  "AuthError",
		},
		{
			name:       "429 rate limit",
			statusCode: http.StatusTooManyRequests,
			errorType:  "RateLimitError",
		},
		{
			name:       "503 unavailable",
			statusCode: http.StatusServiceUnavailable,
			errorType:  "ProviderError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"error": "failed"}`))
			}))
			defer server.Close()

			client := NewHTTPClient(ClientConfig{
				Name:           "test-provider",
				BaseURL:        server.URL,
				RequestTimeout: 5 * time.Second,
			})
			defer client.Close()

			resp, err := client.DoRequest(context.Background(), "POST", server.URL+"/test", nil, nil)
			if err == nil {
				resp.Body.Close()
				t.Fatalf("expected error for %d status, got nil", tt.statusCode)
			}

			switch tt.errorType {
			case "AuthError":
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %T: %v", err, err)
				}
			case "RateLimitError":
				var rateLimitErr *RateLimitError
				if !errors.As(err, &rateLimitErr) {
					t.Errorf("expected RateLimitError, got %T: %v", err, err)
				}
			case "ProviderError":
				var providerErr *ProviderError
				if !errors.As(err, &providerErr) {
					t.Errorf("expected ProviderError, got %T: %v", err, err)
				}
			}
		})
	}
}

func TestHTTPClient_RetryAfterHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "seconds", header: "15", want: 15 * time.Second},
		{name: "absent", header: "", want: 0},
		{name: "garbage", header: "soon", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("Retry-After", tt.header)
				}
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer server.Close()

			client := NewHTTPClient(ClientConfig{
				Name:           "test-provider",
				BaseURL:        server.URL,
				RequestTimeout: 5 * time.Second,
			})
			defer client.Close()

			_, err := client.DoRequest(context.Background(), "POST", server.URL+"/test", nil, nil)

			var rateLimitErr *RateLimitError
			if !errors.As(err, &rateLimitErr) {
				t.Fatalf("expected RateLimitError, got %T: %v", err, err)
			}
			if rateLimitErr.RetryAfter != tt.want {
				t.Errorf("expected retry after %s, got %s", tt.want, rateLimitErr.RetryAfter)
			}
		})
	}
}

func TestHTTPClient_ClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:           "test-provider",
		BaseURL:        server.URL,
		RequestTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	resp, err := client.DoRequest(context.Background(), "POST", server.URL+"/test", nil, nil)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected timeout error, got nil")
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if timeoutErr.Timeout != 100*time.Millisecond {
		t.Errorf("expected timeout 100ms in error, got %s", timeoutErr.Timeout)
	}
}

func TestHTTPClient_CallerCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:           "test-provider",
		BaseURL:        server.URL,
		RequestTimeout: 10 * time.Second,
	})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	resp, err := client.DoRequest(ctx, "POST", server.URL+"/test", nil, nil)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected error after cancellation, got nil")
	}

	// Cancellation is not a provider timeout.
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		t.Fatalf("cancellation must not be reported as TimeoutError: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in the chain, got %v", err)
	}
}

func TestHTTPClient_HealthTracking(t *testing.T) {
	failing := int32(1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&failing) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:           "test-provider",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	})
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		resp, err := client.DoRequest(ctx, "GET", server.URL+"/test", nil, nil)
		if err == nil {
			resp.Body.Close()
			t.Fatal("expected failure")
		}
	}

	if client.IsHealthy() {
		t.Error("expected unhealthy after 3 consecutive failures")
	}

	health := client.GetHealth()
	if health.ConsecutiveFailures != 3 {
		t.Errorf("expected 3 consecutive failures, got %d", health.ConsecutiveFailures)
	}
	if health.FailedRequests != 3 {
		t.Errorf("expected 3 failed requests, got %d", health.FailedRequests)
	}

	atomic.StoreInt32(&failing, 0)
	resp, err := client.DoRequest(ctx, "GET", server.URL+"/test", nil, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	_, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	if !client.IsHealthy() {
		t.Error("expected healthy after success")
	}
	if got := client.GetHealth().ConsecutiveFailures; got != 0 {
		t.Errorf("expected consecutive failures reset, got %d", got)
	}
}

func TestHTTPClient_ConnectionReuse(t *testing.T) {
	requestCount := int32(0)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:                "test-provider",
		BaseURL:             server.URL,
		RequestTimeout:      5 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	})
	defer client.Close()

	ctx := context.Background()
	numRequests := 5
	for i := 0; i < numRequests; i++ {
		resp, err := client.DoRequest(ctx, "GET", server.URL+"/test", nil, nil)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		_, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
	}

	if count := atomic.LoadInt32(&requestCount); count != int32(numRequests) {
		t.Errorf("expected %d requests, got %d", numRequests, count)
	}
	if !client.IsHealthy() {
		t.Error("expected client to be healthy after successful requests")
	}
}

func TestHTTPClient_DoJSONRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:           "test-provider",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	})
	defer client.Close()

	var out struct {
		Message string `json:"message"`
	}
	err := client.DoJSONRequest(context.Background(), "POST", server.URL+"/test",
		map[string]string{"key": "value"}, &out, nil)
	if err != nil {
		t.Fatalf("DoJSONRequest failed: %v", err)
	}
	if out.Message != "hello" {
		t.Errorf("expected message %q, got %q", "hello", out.Message)
	}
}

func TestHTTPClient_DoJSONRequestParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{
		Name:           "test-provider",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	})
	defer client.Close()

	var out map[string]interface{}
	err := client.DoJSONRequest(context.Background(), "POST", server.URL+"/test", nil, &out, nil)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if parseErr.RawResponse != "not json at all" {
		t.Errorf("expected raw response preserved, got %q", parseErr.RawResponse)
	}
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := NewHTTPClient(ClientConfig{Name: "test-provider"})
	defer client.Close()

	config := client.GetConfig()
	if config.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("expected default connect timeout %s, got %s", DefaultConnectTimeout, config.ConnectTimeout)
	}
	if config.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected default request timeout %s, got %s", DefaultRequestTimeout, config.RequestTimeout)
	}
	if !client.IsHealthy() {
		t.Error("expected new client to start healthy")
	}
}
