package providers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"pagecraft/quill/pkg/providers"
)

// TestClientConfig returns an HTTP client configuration with short
// timeouts suitable for tests.
func TestClientConfig(name, baseURL string) providers.ClientConfig {
	return providers.ClientConfig{
		Name:                name,
		BaseURL:             baseURL,
		ConnectTimeout:      2 * time.Second,
		RequestTimeout:      5 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
}

// StaticSecrets is a SecretSource backed by a fixed map.
type StaticSecrets map[string]string

// GetSecret returns the named value or an error when absent.
func (s StaticSecrets) GetSecret(_ context.Context, name string) (string, error) {
	value, ok := s[name]
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}
	return value, nil
}

// StaticDetector is a Detector that flags text containing any of the
// configured markers.
type StaticDetector struct {
	Markers []string
}

// ContainsSensitive reports whether text contains a configured marker.
func (d *StaticDetector) ContainsSensitive(text string) bool {
	for _, marker := range d.Markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// AssertErrorType fails the test if err is not of the expected type.
func AssertErrorType(t *testing.T, err error, expectedType interface{}) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	switch expectedType.(type) {
	case *providers.SecurityError:
		if _, ok := err.(*providers.SecurityError); !ok {
			t.Fatalf("expected SecurityError, got %T: %v", err, err)
		}
	case *providers.AuthError:
		if _, ok := err.(*providers.AuthError); !ok {
			t.Fatalf("expected AuthError, got %T: %v", err, err)
		}
	case *providers.RateLimitError:
		if _, ok := err.(*providers.RateLimitError); !ok {
			t.Fatalf("expected RateLimitError, got %T: %v", err, err)
		}
	case *providers.TimeoutError:
		if _, ok := err.(*providers.TimeoutError); !ok {
			t.Fatalf("expected TimeoutError, got %T: %v", err, err)
		}
	case *providers.ProviderError:
		if _, ok := err.(*providers.ProviderError); !ok {
			t.Fatalf("expected ProviderError, got %T: %v", err, err)
		}
	case *providers.ParseError:
		if _, ok := err.(*providers.ParseError); !ok {
			t.Fatalf("expected ParseError, got %T: %v", err, err)
		}
	case *providers.ValidationError:
		if _, ok := err.(*providers.ValidationError); !ok {
			t.Fatalf("expected ValidationError, got %T: %v", err, err)
		}
	case *providers.ConfigError:
		if _, ok := err.(*providers.ConfigError); !ok {
			t.Fatalf("expected ConfigError, got %T: %v", err, err)
		}
	default:
		t.Fatalf("unknown error type: %T", expectedType)
	}
}

// WaitForCondition polls a condition until it becomes true or the
// timeout elapses.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if condition() {
			return
		}

		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s: %s", timeout, message)
		}

		<-ticker.C
	}
}
