package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/authgw/internal/model"
)

func TestTableClient_InsertProfile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/rest/v1/profiles" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/rest/v1/profiles")
		}
		// service_roleキーはapikeyとAuthorizationの両方に載る
		if got := r.Header.Get("apikey"); got != "service-role-key" {
			t.Errorf("apikey = %q, want %q", got, "service-role-key")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-role-key" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer service-role-key")
		}
		if got := r.Header.Get("Prefer"); got != "return=minimal" {
			t.Errorf("Prefer = %q, want %q", got, "return=minimal")
		}

		var profile map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			t.Fatalf("failed to decode profile: %v", err)
		}
		if profile["user_id"] != "uuid-1234" {
			t.Errorf("user_id = %v, want %q", profile["user_id"], "uuid-1234")
		}
		if profile["name"] != "Ada" {
			t.Errorf("name = %v, want %q", profile["name"], "Ada")
		}
		if profile["age"] != float64(30) {
			t.Errorf("age = %v, want 30", profile["age"])
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewTableClient(server.URL, "service-role-key", nil)

	err := client.InsertProfile(context.Background(), model.Profile{
		UserID: "uuid-1234",
		Name:   "Ada",
		Age:    30,
	})
	if err != nil {
		t.Fatalf("InsertProfile() error = %v", err)
	}
}

func TestTableClient_InsertProfile_ConstraintViolation_ReturnsStoreError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "23505",
			"message": "duplicate key value violates unique constraint \"profiles_pkey\"",
		})
	}))
	defer server.Close()

	client := NewTableClient(server.URL, "service-role-key", nil)

	err := client.InsertProfile(context.Background(), model.Profile{UserID: "uuid-1234", Name: "Ada", Age: 30})
	if err == nil {
		t.Fatal("expected error for constraint violation")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Kind != model.KindStore {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, model.KindStore)
	}
}

func TestTableClient_InsertProfile_StoreUnreachable_ReturnsStoreError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewTableClient(server.URL, "service-role-key", nil)

	err := client.InsertProfile(context.Background(), model.Profile{UserID: "uuid-1234", Name: "Ada", Age: 30})
	if err == nil {
		t.Fatal("expected error when store is unreachable")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Kind != model.KindStore {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, model.KindStore)
	}
}
