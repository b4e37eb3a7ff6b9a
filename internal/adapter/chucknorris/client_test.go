package chucknorris_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/factpanel/factpanel/internal/adapter/chucknorris"
	"github.com/factpanel/factpanel/internal/domain/fact"
	"github.com/factpanel/factpanel/internal/resilience"
)

func TestRandom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Fatalf("unexpected Accept header: %q", accept)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "abc123",
			"value": "Some remarkable fact.",
			"icon_url": "https://example.com/icon.png",
			"url": "https://example.com/jokes/abc123"
		}`))
	}))
	defer srv.Close()

	client := chucknorris.NewClient(srv.URL, 5*time.Second)
	f, err := client.Random(context.Background())
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}

	if f.ID != "abc123" {
		t.Errorf("expected id abc123, got %q", f.ID)
	}
	if f.Text != "Some remarkable fact." {
		t.Errorf("expected fact text, got %q", f.Text)
	}
	if f.IconURL != "https://example.com/icon.png" {
		t.Errorf("expected icon URL, got %q", f.IconURL)
	}
	if f.SourceURL != "https://example.com/jokes/abc123" {
		t.Errorf("expected source URL, got %q", f.SourceURL)
	}
	if !f.FetchedAt.IsZero() {
		t.Errorf("client should not stamp FetchedAt, got %v", f.FetchedAt)
	}
}

func TestRandomUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream broken"}`))
	}))
	defer srv.Close()

	client := chucknorris.NewClient(srv.URL, 5*time.Second)
	_, err := client.Random(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response, got nil")
	}
}

func TestRandomMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := chucknorris.NewClient(srv.URL, 5*time.Second)
	_, err := client.Random(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestRandomEmptyValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc123","value":""}`))
	}))
	defer srv.Close()

	client := chucknorris.NewClient(srv.URL, 5*time.Second)
	_, err := client.Random(context.Background())
	if !errors.Is(err, fact.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText for blank value, got %v", err)
	}
}

func TestRandomUnreachable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := chucknorris.NewClient(srv.URL, time.Second)
	_, err := client.Random(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable upstream, got nil")
	}
}

func TestRandomBreakerOpens(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := chucknorris.NewClient(srv.URL, 5*time.Second)
	client.SetBreaker(resilience.NewBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := client.Random(context.Background()); err == nil {
			t.Fatal("expected error from failing upstream")
		}
	}

	// Third call must be rejected by the open breaker without reaching
	// the upstream.
	_, err := client.Random(context.Background())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected 2 upstream hits, got %d", hits)
	}
}
