package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pagecraft/quill/pkg/providers"
)

// MockProvider is an in-memory Provider for tests. It serves a fixed
// response after an optional delay, or a configured error, and counts
// Complete calls so tests can assert on coalescing and cache behavior.
type MockProvider struct {
	name string

	mu      sync.Mutex
	content string
	usage   providers.TokenUsage
	err     error
	delay   time.Duration
	healthy bool

	calls  int64
	closed int32
}

// NewMockProvider returns a healthy provider named name that answers
// every completion with content.
func NewMockProvider(name, content string) *MockProvider {
	return &MockProvider{
		name:    name,
		content: content,
		usage:   providers.TokenUsage{PromptTokens: 12, CompletionTokens: 34, TotalTokens: 46},
		healthy: true,
	}
}

// SetResponse changes the content served by subsequent completions.
func (m *MockProvider) SetResponse(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = content
}

// SetUsage changes the token usage attached to subsequent responses.
func (m *MockProvider) SetUsage(usage providers.TokenUsage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage = usage
}

// SetError makes subsequent completions fail with err. A nil err
// restores normal responses.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes each completion wait for d before answering. The wait
// is interrupted by context cancellation.
func (m *MockProvider) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetHealthy overrides the reported health status.
func (m *MockProvider) SetHealthy(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = healthy
}

// Calls returns how many times Complete has been invoked.
func (m *MockProvider) Calls() int64 {
	return atomic.LoadInt64(&m.calls)
}

// Complete implements providers.Provider.
func (m *MockProvider) Complete(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	n := atomic.AddInt64(&m.calls, 1)

	m.mu.Lock()
	content := m.content
	usage := m.usage
	err := m.err
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &providers.TimeoutError{Provider: m.name, Timeout: delay}
		}
	}

	if err != nil {
		return nil, err
	}

	return &providers.CompletionResponse{
		ID:           fmt.Sprintf("mock-%d", n),
		Model:        req.Model,
		Content:      content,
		FinishReason: providers.FinishReasonStop,
		Usage:        usage,
		Created:      time.Now().Unix(),
	}, nil
}

// GetName implements providers.Provider.
func (m *MockProvider) GetName() string {
	return m.name
}

// IsHealthy implements providers.Provider.
func (m *MockProvider) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthy
}

// GetHealth implements providers.Provider.
func (m *MockProvider) GetHealth() providers.ProviderHealth {
	m.mu.Lock()
	defer m.mu.Unlock()
	return providers.ProviderHealth{
		IsHealthy:     m.healthy,
		LastCheck:     time.Now(),
		TotalRequests: atomic.LoadInt64(&m.calls),
	}
}

// Close implements providers.Provider.
func (m *MockProvider) Close() error {
	atomic.StoreInt32(&m.closed, 1)
	return nil
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	return atomic.LoadInt32(&m.closed) == 1
}
