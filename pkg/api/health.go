package api

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler answers liveness probes. It reports ok whenever the
// process can serve HTTP at all.
type HealthHandler struct{}

// NewHealthHandler creates a liveness handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ReadyCheck is a named readiness probe. Check returns nil when the
// dependency it guards is usable.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ReadyHandler answers readiness probes by running each registered
// check. Any failing check makes the whole endpoint report 503.
type ReadyHandler struct {
	checks []ReadyCheck
}

// NewReadyHandler creates a readiness handler over the given checks.
// With no checks it always reports ready.
func NewReadyHandler(checks ...ReadyCheck) *ReadyHandler {
	return &ReadyHandler{checks: checks}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	results := make(map[string]string, len(h.checks))
	ready := true

	for _, check := range h.checks {
		if err := check.Check(r.Context()); err != nil {
			results[check.Name] = err.Error()
			ready = false
			continue
		}
		results[check.Name] = "ok"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !ready {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSON(w, statusCode, map[string]any{
		"status":    status,
		"checks":    results,
		"timestamp": time.Now().Unix(),
	})
}
