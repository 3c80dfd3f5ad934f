package retry

import "errors"

// Sentinel errors for retry operations.
var (
	// ErrInvalidAttempt is returned by IntervalPolicy.Delay for attempt
	// numbers below 1. Attempts are 1-indexed.
	ErrInvalidAttempt = errors.New("retry: attempt numbers start at 1")

	// ErrBudgetExhausted is returned when the wall-clock budget for a
	// request is used up before the classifier chain stopped retrying.
	ErrBudgetExhausted = errors.New("retry: time budget exhausted")
)
