package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finbook/finbook-go/breaker"
	"github.com/finbook/finbook-go/contextx"
	"github.com/finbook/finbook-go/retry"
)

func mustNewClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(baseURL, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestDo_GETEncodesQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("monthYear")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL)
	body, err := c.Do(t.Context(), "get", "/transactions", map[string]any{"monthYear": "2024-03"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(body) != `[]` {
		t.Fatalf("body: got %q, want %q", body, `[]`)
	}
	if gotQuery != "2024-03" {
		t.Fatalf("query param: got %q, want %q", gotQuery, "2024-03")
	}
}

func TestDo_POSTSendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type: got %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":"tx-1"}`))
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL)
	_, err := c.Do(t.Context(), "post", "/transactions", map[string]any{"amount": 100.0})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotBody["amount"] != 100.0 {
		t.Fatalf("body amount: got %v, want 100", gotBody["amount"])
	}
}

func TestDo_ErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL)
	_, err := c.Do(t.Context(), "get", "/transactions", nil)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", apiErr.StatusCode)
	}
	if IsAuthError(err) {
		t.Fatal("404 must not count as an auth error")
	}
}

func TestDo_UnauthorizedIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL)
	_, err := c.Do(t.Context(), "get", "/transactions", nil)
	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized in chain, got %v", err)
	}
}

func TestDo_RequestIDHeader(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL)

	// A request ID from the context is forwarded as-is.
	ctx := contextx.WithRequestID(t.Context(), "req-123")
	if _, err := c.Do(ctx, "get", "/months", nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotID != "req-123" {
		t.Fatalf("request id: got %q, want %q", gotID, "req-123")
	}

	// Without one, a fresh ID is minted.
	if _, err := c.Do(t.Context(), "get", "/months", nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotID == "" || gotID == "req-123" {
		t.Fatalf("expected a freshly minted request id, got %q", gotID)
	}
}

func TestDo_RetryOnServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL, WithRetry(retry.Config{
		MaxAttempts:   4,
		BaseDelay:     time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		RetryStatuses: []int{http.StatusServiceUnavailable},
	}))

	body, err := c.Do(t.Context(), "get", "/months", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("body: got %q, want %q", body, "ok")
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("server saw %d calls, want 3", n)
	}
}

func TestDo_BreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL, WithBreaker(breaker.Config{
		FailureThreshold:   2,
		OpenTimeout:        time.Minute,
		HalfOpenMaxSuccess: 1,
	}))

	ctx := t.Context()
	_, _ = c.Do(ctx, "get", "/months", nil)
	_, _ = c.Do(ctx, "get", "/months", nil) // trips the breaker

	_, err := c.Do(ctx, "get", "/months", nil)
	if !errors.Is(err, breaker.ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path: got %q, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := mustNewClient(t, srv.URL)
	if err := c.Ping(t.Context()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

var _ Transport = (*Client)(nil)
