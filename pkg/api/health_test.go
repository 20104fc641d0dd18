package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler()

	t.Run("reports ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["status"] != "ok" {
			t.Errorf("status = %v, want ok", resp["status"])
		}
	})

	t.Run("rejects non-GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", nil))

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", w.Code)
		}
	})
}

func TestReadyHandler(t *testing.T) {
	t.Run("ready when all checks pass", func(t *testing.T) {
		handler := NewReadyHandler(
			ReadyCheck{Name: "provider", Check: func(ctx context.Context) error { return nil }},
			ReadyCheck{Name: "ledger", Check: func(ctx context.Context) error { return nil }},
		)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "ready" {
			t.Errorf("status = %q, want ready", resp.Status)
		}
		if resp.Checks["provider"] != "ok" || resp.Checks["ledger"] != "ok" {
			t.Errorf("checks = %v, want all ok", resp.Checks)
		}
	})

	t.Run("not ready when a check fails", func(t *testing.T) {
		handler := NewReadyHandler(
			ReadyCheck{Name: "provider", Check: func(ctx context.Context) error { return nil }},
			ReadyCheck{Name: "quota", Check: func(ctx context.Context) error {
				return errors.New("store closed")
			}},
		)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}

		var resp struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "not_ready" {
			t.Errorf("status = %q, want not_ready", resp.Status)
		}
		if resp.Checks["quota"] != "store closed" {
			t.Errorf("quota check = %q, want the failure message", resp.Checks["quota"])
		}
	})

	t.Run("no checks means always ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewReadyHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
