package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteDetailResponse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteDetailResponse(w, http.StatusBadRequest, "prompt must be a non-empty string")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := w.Result().Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}

	var body DetailResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	if body.Detail != "prompt must be a non-empty string" {
		t.Errorf("detail = %q, want %q", body.Detail, "prompt must be a non-empty string")
	}
}

func TestWriteAuthErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteAuthErrorResponse(w, "Not authenticated")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if got := w.Result().Header.Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want %q", got, "Bearer")
	}

	var body DetailResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	if body.Detail != "Not authenticated" {
		t.Errorf("detail = %q, want %q", body.Detail, "Not authenticated")
	}
}
