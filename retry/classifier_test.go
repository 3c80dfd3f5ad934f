package retry

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func successWithStatus(code int) Outcome {
	return Success(code, nil, nil)
}

func rateLimited(retryAfter string) Outcome {
	h := http.Header{}
	if retryAfter != "" {
		h.Set("Retry-After", retryAfter)
	}
	return Success(429, h, nil)
}

func TestRateLimitClassifier_Detects429(t *testing.T) {
	c := NewRateLimitClassifier(3)
	state := &State{Attempt: 1}

	v := c.Classify(state, rateLimited(""))
	if v.Kind != VerdictRetry {
		t.Errorf("Kind = %v, want VerdictRetry", v.Kind)
	}
	if v.HasDelay {
		t.Error("HasDelay = true, want false when Retry-After is absent")
	}
}

func TestRateLimitClassifier_UsesRetryAfterHeader(t *testing.T) {
	c := NewRateLimitClassifier(3)
	state := &State{Attempt: 1}

	v := c.Classify(state, rateLimited("60"))
	if v.Kind != VerdictRetry {
		t.Fatalf("Kind = %v, want VerdictRetry", v.Kind)
	}
	if !v.HasDelay {
		t.Fatal("HasDelay = false, want true")
	}
	if v.Delay != 60*time.Second {
		t.Errorf("Delay = %v, want 60s", v.Delay)
	}
}

func TestRateLimitClassifier_UndecidedOnOtherStatus(t *testing.T) {
	c := NewRateLimitClassifier(3)
	state := &State{Attempt: 1}

	for _, code := range []int{200, 404, 500} {
		v := c.Classify(state, successWithStatus(code))
		if v.Kind != VerdictUndecided {
			t.Errorf("status %d: Kind = %v, want VerdictUndecided", code, v.Kind)
		}
	}
}

func TestRateLimitClassifier_UndecidedOnTransportError(t *testing.T) {
	c := NewRateLimitClassifier(3)
	state := &State{Attempt: 1}

	v := c.Classify(state, TransportFailure(KindTimedOut, errors.New("timeout")))
	if v.Kind != VerdictUndecided {
		t.Errorf("Kind = %v, want VerdictUndecided", v.Kind)
	}
}

func TestRateLimitClassifier_CeilingReturnsDoNotRetry(t *testing.T) {
	// Once the ceiling is exceeded on a matching outcome, the verdict
	// must be DoNotRetry, not Undecided, so a later permissive
	// classifier cannot override the exhaustion.
	c := NewRateLimitClassifier(3)

	v := c.Classify(&State{Attempt: 3}, rateLimited(""))
	if v.Kind != VerdictRetry {
		t.Errorf("attempt 3: Kind = %v, want VerdictRetry", v.Kind)
	}

	v = c.Classify(&State{Attempt: 4}, rateLimited(""))
	if v.Kind != VerdictDoNotRetry {
		t.Errorf("attempt 4: Kind = %v, want VerdictDoNotRetry", v.Kind)
	}
}

func TestServerErrorClassifier_Detects5xx(t *testing.T) {
	c := NewServerErrorClassifier(3)
	state := &State{Attempt: 1}

	for _, code := range []int{500, 502, 503, 599} {
		v := c.Classify(state, successWithStatus(code))
		if v.Kind != VerdictRetry {
			t.Errorf("status %d: Kind = %v, want VerdictRetry", code, v.Kind)
		}
	}
}

func TestServerErrorClassifier_UndecidedOn4xx(t *testing.T) {
	c := NewServerErrorClassifier(3)
	state := &State{Attempt: 1}

	for _, code := range []int{200, 400, 404, 429} {
		v := c.Classify(state, successWithStatus(code))
		if v.Kind != VerdictUndecided {
			t.Errorf("status %d: Kind = %v, want VerdictUndecided", code, v.Kind)
		}
	}
}

func TestServerErrorClassifier_Ceiling(t *testing.T) {
	c := NewServerErrorClassifier(2)

	v := c.Classify(&State{Attempt: 3}, successWithStatus(500))
	if v.Kind != VerdictDoNotRetry {
		t.Errorf("Kind = %v, want VerdictDoNotRetry", v.Kind)
	}
}

func TestConnectionErrorClassifier_DetectsTransportKinds(t *testing.T) {
	c := NewConnectionErrorClassifier(3)
	state := &State{Attempt: 1}

	kinds := []TransportErrorKind{KindConnectFailed, KindTimedOut, KindConnectionReset}
	for _, kind := range kinds {
		v := c.Classify(state, TransportFailure(kind, errors.New("boom")))
		if v.Kind != VerdictRetry {
			t.Errorf("kind %v: Kind = %v, want VerdictRetry", kind, v.Kind)
		}
	}
}

func TestConnectionErrorClassifier_UndecidedOnSuccess(t *testing.T) {
	c := NewConnectionErrorClassifier(3)
	state := &State{Attempt: 1}

	v := c.Classify(state, successWithStatus(500))
	if v.Kind != VerdictUndecided {
		t.Errorf("Kind = %v, want VerdictUndecided", v.Kind)
	}
}

func TestConnectionErrorClassifier_Ceiling(t *testing.T) {
	c := NewConnectionErrorClassifier(2)

	v := c.Classify(&State{Attempt: 3}, TransportFailure(KindConnectFailed, errors.New("refused")))
	if v.Kind != VerdictDoNotRetry {
		t.Errorf("Kind = %v, want VerdictDoNotRetry", v.Kind)
	}
}

func TestChain_FirstNonUndecidedWins(t *testing.T) {
	chain := Chain{
		NewRateLimitClassifier(3),
		NewServerErrorClassifier(3),
		NewConnectionErrorClassifier(3),
	}
	state := &State{Attempt: 1}

	v := chain.Classify(state, rateLimited("10"))
	if v.Kind != VerdictRetry || !v.HasDelay {
		t.Errorf("Verdict = %+v, want rate-limit retry with delay", v)
	}

	v = chain.Classify(state, successWithStatus(503))
	if v.Kind != VerdictRetry || v.HasDelay {
		t.Errorf("Verdict = %+v, want server-error retry without delay", v)
	}
}

func TestChain_EndsUndecidedDefaultsToDoNotRetry(t *testing.T) {
	chain := Chain{
		NewRateLimitClassifier(3),
		NewServerErrorClassifier(3),
	}
	state := &State{Attempt: 1}

	v := chain.Classify(state, successWithStatus(404))
	if v.Kind != VerdictDoNotRetry {
		t.Errorf("Kind = %v, want VerdictDoNotRetry", v.Kind)
	}
}

func TestChain_Empty(t *testing.T) {
	var chain Chain
	v := chain.Classify(&State{Attempt: 1}, successWithStatus(500))
	if v.Kind != VerdictDoNotRetry {
		t.Errorf("Kind = %v, want VerdictDoNotRetry", v.Kind)
	}
}

func TestChain_ExhaustedClassifierShortCircuits(t *testing.T) {
	// rateLimit(max=3) ahead of a permissive serverError(max=100): the
	// rate-limit ceiling must win for 429 outcomes.
	chain := Chain{
		NewRateLimitClassifier(3),
		NewServerErrorClassifier(100),
	}

	v := chain.Classify(&State{Attempt: 4}, rateLimited(""))
	if v.Kind != VerdictDoNotRetry {
		t.Errorf("Kind = %v, want VerdictDoNotRetry", v.Kind)
	}
}
