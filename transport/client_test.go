package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/chatops/retry"
)

func TestPerform_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("X-Request-Id", "abc123")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(Config{})
	outcome := client.Perform(context.Background(), Request{URL: srv.URL})

	if !outcome.IsSuccess() {
		t.Fatalf("IsSuccess() = false, err = %v", outcome.Err)
	}
	if outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", outcome.StatusCode)
	}
	if got := outcome.HeaderValue("x-request-id"); got != "abc123" {
		t.Errorf("HeaderValue(x-request-id) = %q, want abc123", got)
	}
	if string(outcome.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", outcome.Body)
	}
}

func TestPerform_RetryAfterPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Config{})
	outcome := client.Perform(context.Background(), Request{URL: srv.URL})

	if outcome.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("StatusCode = %d, want 429", outcome.StatusCode)
	}
	d, ok := outcome.RetryAfter()
	if !ok {
		t.Fatal("RetryAfter() ok = false, want true")
	}
	if d != 30*time.Second {
		t.Errorf("RetryAfter() = %v, want 30s", d)
	}
}

func TestPerform_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(Config{HTTPClient: &http.Client{Timeout: 20 * time.Millisecond}})
	outcome := client.Perform(context.Background(), Request{URL: srv.URL})

	if !outcome.IsTransportError() {
		t.Fatalf("IsTransportError() = false, outcome = %+v", outcome)
	}
	if outcome.Kind != retry.KindTimedOut {
		t.Errorf("Kind = %v, want %v", outcome.Kind, retry.KindTimedOut)
	}
}

func TestPerform_ConnectFailed(t *testing.T) {
	// Nothing listens on this port.
	client := NewClient(Config{HTTPClient: &http.Client{Timeout: 2 * time.Second}})
	outcome := client.Perform(context.Background(), Request{URL: "http://127.0.0.1:1/api"})

	if !outcome.IsTransportError() {
		t.Fatalf("IsTransportError() = false, outcome = %+v", outcome)
	}
	if outcome.Kind != retry.KindConnectFailed {
		t.Errorf("Kind = %v, want %v", outcome.Kind, retry.KindConnectFailed)
	}
}

func TestPerform_BadRequestIsFatal(t *testing.T) {
	client := NewClient(Config{})
	outcome := client.Perform(context.Background(), Request{Method: "bad method", URL: "http://example.com"})

	if !outcome.IsFatal() {
		t.Errorf("IsFatal() = false, want true")
	}
}

func TestPerform_UserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	client := NewClient(Config{UserAgent: "chatops/1.0"})
	client.Perform(context.Background(), Request{URL: srv.URL})

	if ua, _ := got.Load().(string); ua != "chatops/1.0" {
		t.Errorf("User-Agent = %q, want chatops/1.0", ua)
	}
}

func TestAttempt_WithEngine(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{})
	engine := retry.NewEngine(retry.EngineConfig{
		Policy: retry.NewIntervalPolicy(retry.IntervalConfig{Base: time.Millisecond, Cap: time.Millisecond}),
	})

	result, err := engine.Do(context.Background(), client.Attempt(Request{URL: srv.URL}))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.Outcome.StatusCode)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
}
