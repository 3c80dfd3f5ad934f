package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestTokenTransport_InjectsBearer(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	client := NewClient(Config{
		HTTPClient: &http.Client{Transport: &TokenTransport{Token: "xapp-1-secret"}},
	})
	client.Perform(context.Background(), Request{URL: srv.URL})

	if auth, _ := got.Load().(string); auth != "Bearer xapp-1-secret" {
		t.Errorf("Authorization = %q, want Bearer xapp-1-secret", auth)
	}
}

func TestTokenTransport_PreservesExplicitHeader(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	client := NewClient(Config{
		HTTPClient: &http.Client{Transport: &TokenTransport{Token: "xapp-1-secret"}},
	})
	header := http.Header{}
	header.Set("Authorization", "Bearer other-token")
	client.Perform(context.Background(), Request{URL: srv.URL, Header: header})

	if auth, _ := got.Load().(string); auth != "Bearer other-token" {
		t.Errorf("Authorization = %q, want Bearer other-token", auth)
	}
}

func TestAPIChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewAPIChecker(NewClient(Config{}), srv.URL)
	if checker.Name() != "web_api" {
		t.Errorf("Name() = %q, want web_api", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status.String() != "healthy" {
		t.Errorf("Status = %v, want healthy", result.Status)
	}

	srv.Close()
	result = checker.Check(context.Background())
	if result.Status.String() != "unhealthy" {
		t.Errorf("Status after close = %v, want unhealthy", result.Status)
	}
}
