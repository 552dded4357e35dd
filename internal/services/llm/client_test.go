package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"crumb/internal/config"
	"crumb/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.LLM{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"}
	opts = append([]Option{
		WithRetryBackoff(time.Millisecond, 5*time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	}, opts...)
	return NewClient(cfg, opts...)
}

func TestExplainReturnsContent(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Levain is an offshoot of your starter."}}]}`))
	})

	got, err := client.Explain(context.Background(), "levain")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got != "Levain is an offshoot of your starter." {
		t.Fatalf("unexpected content: %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("missing bearer auth: %q", gotAuth)
	}
}

func TestExplainRequiresTerm(t *testing.T) {
	client := NewClient(config.LLM{APIKey: "k", BaseURL: "http://unused", Model: "m"})
	if _, err := client.Explain(context.Background(), "  "); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCompleteWithoutAPIKey(t *testing.T) {
	client := NewClient(config.LLM{BaseURL: "http://unused", Model: "m"})
	if _, err := client.Explain(context.Background(), "levain"); !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	got, err := client.GenerateIdeas(context.Background(), "a rye loaf for beginners")
	if err != nil {
		t.Fatalf("GenerateIdeas: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected content: %q", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	var slept []time.Duration
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, WithSleeper(func(d time.Duration) { slept = append(slept, d) }))

	if _, err := client.Explain(context.Background(), "autolyse"); err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("Retry-After not honored: %v", slept)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad model", http.StatusBadRequest)
	})

	if _, err := client.Explain(context.Background(), "autolyse"); !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("client error should not retry, got %d calls", calls.Load())
	}
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	})

	if _, err := client.Explain(context.Background(), "autolyse"); !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if calls.Load() != defaultRetryAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultRetryAttempts, calls.Load())
	}
}

func TestToleratesDeltaSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"delta":{"content":"streamed anyway"}}]}`))
	})

	got, err := client.Explain(context.Background(), "banneton")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got != "streamed anyway" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestRetryAfterHonorsMaxCap(t *testing.T) {
	client := NewClient(config.LLM{APIKey: "k", BaseURL: "http://unused", Model: "m"},
		WithRetryBackoff(time.Second, 3*time.Second))
	if got := client.capDelay(10 * time.Second); got != 3*time.Second {
		t.Fatalf("cap not applied: %v", got)
	}
}
