package retry

import "time"

// State is the mutable record for one in-flight request. It is created
// when the request starts, mutated only by the Engine driving that
// request, and discarded when the request finishes. States are never
// shared across requests.
type State struct {
	// Attempt is the number of physical attempts made so far. It
	// increases by exactly 1 per attempt and never resets mid-request.
	Attempt int

	// StartedAt is when the first attempt began.
	StartedAt time.Time

	// NextDelay is the wait most recently scheduled before the next
	// attempt.
	NextDelay time.Duration

	// LastOutcome is the outcome of the most recent attempt.
	LastOutcome Outcome
}

// NewState creates a fresh per-request state.
func NewState() *State {
	return &State{StartedAt: time.Now()}
}

// Elapsed returns the wall-clock time since the first attempt began.
func (s *State) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}
