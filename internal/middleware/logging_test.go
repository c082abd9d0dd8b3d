package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeHTTPMetrics はHTTPMetricsRecorderのテスト用実装。
type fakeHTTPMetrics struct {
	mu        sync.Mutex
	statuses  []int
	durations []time.Duration
}

func (f *fakeHTTPMetrics) RecordHTTPStatus(statusCode int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, statusCode)
}

func (f *fakeHTTPMetrics) RecordRequestDuration(duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations = append(f.durations, duration)
}

func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := NewLoggingMiddleware(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v\nraw: %s", err, buf.String())
	}

	if entry["method"] != "POST" {
		t.Errorf("method = %q, want %q", entry["method"], "POST")
	}
	if entry["path"] != "/auth/login" {
		t.Errorf("path = %q, want %q", entry["path"], "/auth/login")
	}
	if status, ok := entry["status"].(float64); !ok || status != 200 {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected 'duration_ms' field in log entry")
	}
	if rid, ok := entry["request_id"].(string); !ok || rid == "" {
		t.Error("expected non-empty 'request_id' field in log entry")
	}
}

func TestLoggingMiddleware_SetsRequestIDHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := NewLoggingMiddleware(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// コンテキストからもリクエストIDを参照できること
		if _, ok := RequestIDFromContext(r.Context()); !ok {
			t.Error("expected request ID in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Result().Header.Get("X-Request-ID"); got == "" {
		t.Error("expected non-empty X-Request-ID header")
	}
}

func TestLoggingMiddleware_IncludesUserID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := NewLoggingMiddleware(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/generate_text", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "uuid-1234"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v", err)
	}

	if entry["user_id"] != "uuid-1234" {
		t.Errorf("user_id = %q, want %q", entry["user_id"], "uuid-1234")
	}
}

func TestLoggingMiddleware_LogLevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"2xx is info", http.StatusOK, "INFO"},
		{"4xx is warn", http.StatusUnauthorized, "WARN"},
		{"5xx is error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

			handler := NewLoggingMiddleware(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse JSON log: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %q, want %q", entry["level"], tt.wantLevel)
			}
		})
	}
}

func TestLoggingMiddleware_RecordsMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	m := &fakeHTTPMetrics{}

	handler := NewLoggingMiddleware(logger, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(m.statuses) != 1 || m.statuses[0] != http.StatusBadRequest {
		t.Errorf("recorded statuses = %v, want [400]", m.statuses)
	}
	if len(m.durations) != 1 {
		t.Errorf("recorded durations = %v, want 1 entry", m.durations)
	}
}
