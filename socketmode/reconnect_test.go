package socketmode

import (
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/chatops/retry"
)

func TestReconnector_IncreasingDelays(t *testing.T) {
	r := NewReconnector(ReconnectorConfig{
		Policy: retry.NewIntervalPolicy(retry.IntervalConfig{
			Base:       time.Second,
			Multiplier: 2.0,
		}),
		MaxAttempts: 5,
	})

	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for i, w := range want {
		d, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i+1, err)
		}
		if d != w {
			t.Errorf("Next() #%d = %v, want %v", i+1, d, w)
		}
	}
}

func TestReconnector_Exhaustion(t *testing.T) {
	r := NewReconnector(ReconnectorConfig{MaxAttempts: 2})

	for i := 0; i < 2; i++ {
		if _, err := r.Next(); err != nil {
			t.Fatalf("Next() #%d error = %v", i+1, err)
		}
	}
	if _, err := r.Next(); !errors.Is(err, ErrReconnectExhausted) {
		t.Errorf("Next() #3 error = %v, want ErrReconnectExhausted", err)
	}
}

func TestReconnector_Reset(t *testing.T) {
	r := NewReconnector(ReconnectorConfig{
		Policy: retry.NewIntervalPolicy(retry.IntervalConfig{
			Base:       time.Second,
			Multiplier: 2.0,
		}),
		MaxAttempts: 3,
	})

	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if r.Attempt() != 2 {
		t.Errorf("Attempt() = %d, want 2", r.Attempt())
	}

	r.Reset()
	if r.Attempt() != 0 {
		t.Errorf("Attempt() after Reset = %d, want 0", r.Attempt())
	}
	d, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if d != time.Second {
		t.Errorf("Next() after Reset = %v, want 1s", d)
	}
}

func TestReconnector_Defaults(t *testing.T) {
	r := NewReconnector(ReconnectorConfig{})

	d, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if d != time.Second {
		t.Errorf("default first delay = %v, want 1s", d)
	}

	// Delays stay within the default cap.
	for i := 0; i < 3; i++ {
		d, err = r.Next()
		if err != nil {
			t.Fatal(err)
		}
		if d > 30*time.Second {
			t.Errorf("delay %v exceeds default cap", d)
		}
	}
}
