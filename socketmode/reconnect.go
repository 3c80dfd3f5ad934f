package socketmode

import (
	"time"

	"github.com/jonwraymond/chatops/retry"
)

// ReconnectorConfig configures reconnect scheduling.
type ReconnectorConfig struct {
	// Policy computes the wait before each reconnect attempt.
	// Default: exponential from 1s, doubling, capped at 30s
	Policy *retry.IntervalPolicy

	// MaxAttempts is the ceiling on consecutive failed attempts before
	// giving up.
	// Default: 5
	MaxAttempts int
}

// Reconnector schedules reconnect attempts after the event channel
// drops. The attempt counter resets to zero on a successful reopen.
//
// Not safe for concurrent use; owned by the Manager run loop.
type Reconnector struct {
	policy      *retry.IntervalPolicy
	maxAttempts int
	attempt     int
}

// NewReconnector creates a Reconnector with defaults applied.
func NewReconnector(config ReconnectorConfig) *Reconnector {
	if config.Policy == nil {
		config.Policy = retry.NewIntervalPolicy(retry.IntervalConfig{
			Base: time.Second,
			Cap:  30 * time.Second,
		})
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	return &Reconnector{
		policy:      config.Policy,
		maxAttempts: config.MaxAttempts,
	}
}

// Next records one failed attempt and returns the wait before the
// next try, or ErrReconnectExhausted once the ceiling is exceeded.
func (r *Reconnector) Next() (time.Duration, error) {
	r.attempt++
	if r.attempt > r.maxAttempts {
		return 0, ErrReconnectExhausted
	}
	return r.policy.Delay(r.attempt)
}

// Reset clears the attempt counter after a successful reopen.
func (r *Reconnector) Reset() {
	r.attempt = 0
}

// Attempt returns the number of consecutive failed attempts so far.
func (r *Reconnector) Attempt() int {
	return r.attempt
}
