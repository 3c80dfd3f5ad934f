// Package retry implements the retry-with-backoff engine that governs
// outbound calls to the chat platform's HTTP API.
//
// The package separates three concerns:
//
//   - IntervalPolicy: a pure mapping from attempt number to wait
//     duration (exponential backoff with an optional cap and jitter).
//
//   - Classifier: a policy that inspects the outcome of one physical
//     attempt and declares it retryable, not retryable, or defers to
//     the next classifier in the chain.
//
//   - Engine: the loop that drives a request through the chain and the
//     policy until success, exhaustion, or a non-retryable outcome.
//
// # Usage
//
//	engine := retry.NewEngine(retry.EngineConfig{
//	    Classifiers: retry.Chain{
//	        retry.NewRateLimitClassifier(3),
//	        retry.NewServerErrorClassifier(5),
//	        retry.NewConnectionErrorClassifier(5),
//	    },
//	    Policy: retry.NewIntervalPolicy(retry.IntervalConfig{
//	        Base:       time.Second,
//	        Multiplier: 2.0,
//	        Cap:        30 * time.Second,
//	    }),
//	    MaxElapsed: 2 * time.Minute,
//	})
//
//	result, err := engine.Do(ctx, func(ctx context.Context) retry.Outcome {
//	    return performRequest(ctx)
//	})
//
// Classifiers and policies are pure decision functions: they perform
// no I/O and never mutate shared state, so one Engine may serve
// arbitrarily many concurrent requests.
package retry
