package retry

import (
	"context"
	"time"
)

// AttemptFunc performs one physical attempt and returns its outcome.
// It must not retry on its own.
type AttemptFunc func(ctx context.Context) Outcome

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Classifiers is the ordered classifier chain.
	// Default: rate limit, server error, connection error, each with
	// its default ceiling.
	Classifiers Chain

	// Policy computes the wait between attempts when the winning
	// classifier offers no suggestion.
	// Default: NewIntervalPolicy(IntervalConfig{})
	Policy *IntervalPolicy

	// MaxElapsed is the hard ceiling on total wall-clock time across
	// attempts and waits. Exceeding it terminates the request
	// regardless of per-classifier ceilings.
	// Default: 5 minutes
	MaxElapsed time.Duration

	// OnRetry is called before each scheduled wait.
	OnRetry func(attempt int, outcome Outcome, delay time.Duration)
}

// Engine drives one request through the classifier chain and interval
// policy until success, exhaustion, or a non-retryable outcome.
//
// Engines hold only read-only configuration, so a single Engine may
// serve arbitrarily many concurrent requests; each Do call owns its
// own State.
type Engine struct {
	config EngineConfig
}

// NewEngine creates an Engine with defaults applied.
func NewEngine(config EngineConfig) *Engine {
	if config.Classifiers == nil {
		config.Classifiers = Chain{
			NewRateLimitClassifier(0),
			NewServerErrorClassifier(0),
			NewConnectionErrorClassifier(0),
		}
	}
	if config.Policy == nil {
		config.Policy = NewIntervalPolicy(IntervalConfig{})
	}
	if config.MaxElapsed <= 0 {
		config.MaxElapsed = 5 * time.Minute
	}
	return &Engine{config: config}
}

// Result is the final product of an Engine run.
type Result struct {
	// Outcome is the last outcome observed.
	Outcome Outcome

	// Attempts is the number of physical attempts made.
	Attempts int

	// Elapsed is the total wall-clock time spent.
	Elapsed time.Duration
}

// Do runs op until a classifier stops the retries or a budget is hit.
//
// The returned error is nil when the request terminated through the
// classifier chain — including non-retryable outcomes, where the
// caller interprets the final Outcome's status or error. A non-nil
// error is either ErrBudgetExhausted (wall-clock ceiling hit) or the
// context's error when the pending wait was cancelled, so a deliberate
// shutdown is never mistaken for exhaustion.
func (e *Engine) Do(ctx context.Context, op AttemptFunc) (Result, error) {
	state := NewState()

	for {
		outcome := op(ctx)
		state.Attempt++
		state.LastOutcome = outcome

		// Malformed responses are never retried.
		if outcome.IsFatal() {
			return e.result(state), nil
		}

		verdict := e.config.Classifiers.Classify(state, outcome)
		if verdict.Kind != VerdictRetry {
			return e.result(state), nil
		}

		delay := verdict.Delay
		if !verdict.HasDelay {
			d, err := e.config.Policy.Delay(state.Attempt)
			if err != nil {
				return e.result(state), err
			}
			delay = d
		}
		state.NextDelay = delay

		if state.Elapsed()+delay > e.config.MaxElapsed {
			return e.result(state), ErrBudgetExhausted
		}

		if e.config.OnRetry != nil {
			e.config.OnRetry(state.Attempt, outcome, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return e.result(state), ctx.Err()
		case <-timer.C:
		}
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

func (e *Engine) result(state *State) Result {
	return Result{
		Outcome:  state.LastOutcome,
		Attempts: state.Attempt,
		Elapsed:  state.Elapsed(),
	}
}
