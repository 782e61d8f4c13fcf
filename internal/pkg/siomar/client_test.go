package siomar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return &Client{
		BaseURL:    url,
		ServiceKey: "service-key",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestClientGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/admin/users/u-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer service-key" || r.Header.Get("apikey") != "service-key" {
			t.Error("service key headers missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u-1","email":"maria@example.com"}`))
	}))
	defer srv.Close()

	u, err := testClient(srv.URL).GetUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.ID != "u-1" || u.Email != "maria@example.com" {
		t.Errorf("user = %+v", u)
	}
}

func TestClientGetUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetUser(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestClientCreateUserKeepsID(t *testing.T) {
	var got RemoteUser
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/admin/users" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testClient(srv.URL).CreateUser(context.Background(), RemoteUser{
		ID:    "7f3c2b90-0000-4000-8000-000000000001",
		Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if got.ID != "7f3c2b90-0000-4000-8000-000000000001" {
		t.Errorf("remote received id %q, the shared UUID must pass through unchanged", got.ID)
	}
}

func TestClientUpsertWorkspaceContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/workspace_contexts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Prefer") != "resolution=merge-duplicates" {
			t.Error("upsert must request merge-duplicates resolution")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testClient(srv.URL).UpsertWorkspaceContext(context.Background(), WorkspaceContext{
		UserID:    "u-1",
		SeatLimit: 5,
	})
	if err != nil {
		t.Fatalf("UpsertWorkspaceContext() error = %v", err)
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient}
	if _, err := c.GetUser(context.Background(), "u-1"); err == nil {
		t.Fatal("expected error without base url")
	}
}
