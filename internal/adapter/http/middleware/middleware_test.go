package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestLoggingMiddleware_TagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusAccepted)
	})
	h := chimiddleware.RequestID(NewLoggingMiddleware(logger).Wrap(next))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balances/ACC-1", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var completed map[string]any
	if err := json.Unmarshal(lines[1], &completed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if completed["request_id"] != "req-42" {
		t.Fatalf("expected request_id req-42, got %v", completed["request_id"])
	}
	if completed["status"] != float64(http.StatusAccepted) {
		t.Fatalf("expected status 202, got %v", completed["status"])
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Ports differ; the client is the host.
	if send("1.2.3.4:1000") != http.StatusOK || send("1.2.3.4:2000") != http.StatusOK {
		t.Fatal("expected burst of two to pass")
	}
	if code := send("1.2.3.4:3000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := send("5.6.7.8:1000"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}

	rl.CleanupLimiters()
	rl.mu.RLock()
	_, kept := rl.limiters["1.2.3.4"]
	rl.mu.RUnlock()
	if !kept {
		t.Fatal("expected drained limiter to survive cleanup")
	}
}
