package retry

import (
	"net/http"
	"time"
)

// VerdictKind enumerates the possible classifier decisions.
type VerdictKind int

const (
	// VerdictUndecided defers the decision to the next classifier in
	// the chain.
	VerdictUndecided VerdictKind = iota
	// VerdictRetry schedules another attempt.
	VerdictRetry
	// VerdictDoNotRetry terminates the request with the last outcome.
	VerdictDoNotRetry
)

// Verdict is a classifier's decision about one outcome.
type Verdict struct {
	// Kind is the decision.
	Kind VerdictKind

	// Delay is the classifier's suggested wait before the next attempt.
	// Meaningful only when HasDelay is true; otherwise the Engine falls
	// back to its IntervalPolicy.
	Delay time.Duration

	// HasDelay reports whether Delay carries a suggestion.
	HasDelay bool
}

// Undecided defers to the next classifier.
func Undecided() Verdict {
	return Verdict{Kind: VerdictUndecided}
}

// Retry schedules another attempt with no suggested delay.
func Retry() Verdict {
	return Verdict{Kind: VerdictRetry}
}

// RetryAfter schedules another attempt after the given delay.
func RetryAfter(delay time.Duration) Verdict {
	return Verdict{Kind: VerdictRetry, Delay: delay, HasDelay: true}
}

// DoNotRetry terminates the request.
func DoNotRetry() Verdict {
	return Verdict{Kind: VerdictDoNotRetry}
}

// Classifier decides whether a given outcome warrants another attempt.
//
// Contract:
//   - Classifiers are pure decision functions: no I/O, no mutation of
//     the state they receive.
//   - Implementations must be safe for use across concurrent requests.
type Classifier interface {
	Classify(state *State, outcome Outcome) Verdict
}

// Chain evaluates classifiers in a fixed order; the first non-Undecided
// verdict wins. A chain that ends Undecided yields DoNotRetry.
type Chain []Classifier

// Classify runs the outcome through the chain.
func (c Chain) Classify(state *State, outcome Outcome) Verdict {
	for _, classifier := range c {
		if v := classifier.Classify(state, outcome); v.Kind != VerdictUndecided {
			return v
		}
	}
	return DoNotRetry()
}

// RateLimitClassifier retries rate-limited responses (HTTP 429),
// honoring the Retry-After header when present.
type RateLimitClassifier struct {
	// MaxRetries caps retries for rate-limited responses.
	// Default: 3
	MaxRetries int
}

// NewRateLimitClassifier creates a rate-limit classifier.
func NewRateLimitClassifier(maxRetries int) *RateLimitClassifier {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RateLimitClassifier{MaxRetries: maxRetries}
}

// Classify implements Classifier.
func (c *RateLimitClassifier) Classify(state *State, outcome Outcome) Verdict {
	if !outcome.IsSuccess() || outcome.StatusCode != http.StatusTooManyRequests {
		return Undecided()
	}
	if state.Attempt > c.MaxRetries {
		// Exhaustion on a matching outcome must not fall through to a
		// later, more permissive classifier.
		return DoNotRetry()
	}
	if delay, ok := outcome.RetryAfter(); ok {
		return RetryAfter(delay)
	}
	return Retry()
}

// ServerErrorClassifier retries server errors (HTTP 5xx).
type ServerErrorClassifier struct {
	// MaxRetries caps retries for server-error responses.
	// Default: 3
	MaxRetries int
}

// NewServerErrorClassifier creates a server-error classifier.
func NewServerErrorClassifier(maxRetries int) *ServerErrorClassifier {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ServerErrorClassifier{MaxRetries: maxRetries}
}

// Classify implements Classifier.
func (c *ServerErrorClassifier) Classify(state *State, outcome Outcome) Verdict {
	if !outcome.IsSuccess() || outcome.StatusCode < 500 || outcome.StatusCode > 599 {
		return Undecided()
	}
	if state.Attempt > c.MaxRetries {
		return DoNotRetry()
	}
	return Retry()
}

// ConnectionErrorClassifier retries transport-level failures: failed
// connects, timeouts, and connection resets.
type ConnectionErrorClassifier struct {
	// MaxRetries caps retries for transport failures.
	// Default: 3
	MaxRetries int
}

// NewConnectionErrorClassifier creates a connection-error classifier.
func NewConnectionErrorClassifier(maxRetries int) *ConnectionErrorClassifier {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ConnectionErrorClassifier{MaxRetries: maxRetries}
}

// Classify implements Classifier.
func (c *ConnectionErrorClassifier) Classify(state *State, outcome Outcome) Verdict {
	if !outcome.IsTransportError() {
		return Undecided()
	}
	switch outcome.Kind {
	case KindConnectFailed, KindTimedOut, KindConnectionReset:
	default:
		return Undecided()
	}
	if state.Attempt > c.MaxRetries {
		return DoNotRetry()
	}
	return Retry()
}
