package retry

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// IntervalConfig configures an IntervalPolicy.
type IntervalConfig struct {
	// Base is the delay before the first retry.
	// Default: 1s
	Base time.Duration

	// Multiplier is the exponential growth factor. Values below 1 fall
	// back to the default.
	// Default: 2.0
	Multiplier float64

	// Cap bounds the computed delay. Zero means no cap.
	Cap time.Duration

	// JitterRatio spreads each delay uniformly by ±ratio to prevent
	// thundering herds. Clamped to [0, 1].
	// Default: 0 (no jitter)
	JitterRatio float64
}

// IntervalPolicy maps an attempt number to a wait duration using
// exponential backoff: base * multiplier^(attempt-1), capped, then
// jittered. Policies are pure: no side effects, no I/O, safe to share
// across concurrent requests.
type IntervalPolicy struct {
	config IntervalConfig

	// randFloat yields a value in [0, 1). Replaceable in tests for
	// deterministic jitter.
	randFloat func() float64
}

// NewIntervalPolicy creates a policy with defaults applied.
func NewIntervalPolicy(config IntervalConfig) *IntervalPolicy {
	if config.Base <= 0 {
		config.Base = time.Second
	}
	if config.Multiplier < 1 {
		config.Multiplier = 2.0
	}
	if config.JitterRatio < 0 {
		config.JitterRatio = 0
	}
	if config.JitterRatio > 1 {
		config.JitterRatio = 1
	}

	// #nosec G404 -- jitter is non-cryptographic timing variance.
	return &IntervalPolicy{config: config, randFloat: rand.Float64}
}

// Delay returns the wait duration before the given attempt. Attempts
// are 1-indexed; attempt numbers below 1 return ErrInvalidAttempt.
func (p *IntervalPolicy) Delay(attempt int) (time.Duration, error) {
	if attempt < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidAttempt, attempt)
	}

	raw := float64(p.config.Base) * math.Pow(p.config.Multiplier, float64(attempt-1))

	if p.config.Cap > 0 && raw > float64(p.config.Cap) {
		raw = float64(p.config.Cap)
	}

	if p.config.JitterRatio > 0 {
		// Uniform in [-ratio, +ratio].
		spread := (p.randFloat()*2 - 1) * p.config.JitterRatio
		raw *= 1 + spread
	}

	if raw < 0 {
		raw = 0
	}

	return time.Duration(raw), nil
}

// Config returns the policy configuration.
func (p *IntervalPolicy) Config() IntervalConfig {
	return p.config
}
