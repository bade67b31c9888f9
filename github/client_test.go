package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestStarSendsGitHubRequest verifies method, path and headers of the star call.
func TestStarSendsGitHubRequest(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL + "/")
	if err := c.Star(context.Background(), "token-1", "golang/go"); err != nil {
		t.Fatalf("star: %v", err)
	}
	if got.Method != http.MethodPut || got.URL.Path != "/user/starred/golang/go" {
		t.Fatalf("unexpected request %s %s", got.Method, got.URL.Path)
	}
	if got.Header.Get("Authorization") != "Bearer token-1" {
		t.Fatalf("unexpected authorization %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("Accept") != "application/vnd.github+json" || got.Header.Get("X-GitHub-Api-Version") != apiVersion {
		t.Fatalf("missing github headers: %v", got.Header)
	}
}

// TestStarReportsFailures verifies non-success statuses and bad input are errors.
func TestStarReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Requires authentication"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if err := c.Star(context.Background(), "bad", "golang/go"); err == nil {
		t.Fatalf("expected error for 401")
	}
	if err := c.Star(context.Background(), "", "golang/go"); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	for _, name := range []string{"golang", "/go", "golang/", "a/b/c"} {
		if err := c.Star(context.Background(), "t", name); !errors.Is(err, ErrInvalidRepo) {
			t.Fatalf("%q: expected ErrInvalidRepo, got %v", name, err)
		}
	}
}

// TestStarAsyncReportsResult verifies the background call completes and reports its error.
func TestStarAsyncReportsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	done := make(chan error, 1)
	NewClient(server.URL).StarAsync("t", "golang/go", func(err error) { done <- err })

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected error from 500")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("star did not complete")
	}
}
