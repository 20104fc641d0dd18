package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"pagecraft/quill/pkg/telemetry/logging"
)

func TestRequestID(t *testing.T) {
	var seenID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logging.GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequestID(handler)

	t.Run("generates an ID when none provided", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		headerID := w.Header().Get(RequestIDHeader)
		if headerID == "" {
			t.Fatal("response should carry an X-Request-ID header")
		}
		if _, err := uuid.Parse(headerID); err != nil {
			t.Errorf("generated ID %q is not a UUID: %v", headerID, err)
		}
		if seenID != headerID {
			t.Errorf("context ID = %q, header ID = %q; want them equal", seenID, headerID)
		}
	})

	t.Run("honors a client-supplied ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
		req.Header.Set(RequestIDHeader, "host-correlation-42")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != "host-correlation-42" {
			t.Errorf("header ID = %q, want host-correlation-42", got)
		}
		if seenID != "host-correlation-42" {
			t.Errorf("context ID = %q, want host-correlation-42", seenID)
		}
	})

	t.Run("distinct requests get distinct IDs", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		wrapped.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		w2 := httptest.NewRecorder()
		wrapped.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		id1 := w1.Header().Get(RequestIDHeader)
		id2 := w2.Header().Get(RequestIDHeader)
		if id1 == id2 {
			t.Errorf("both requests got ID %s", id1)
		}
	})
}
