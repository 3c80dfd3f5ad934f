package socketmode_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonwraymond/chatops/retry"
	"github.com/jonwraymond/chatops/socketmode"
)

func ExampleState_CanTransitionTo() {
	fmt.Println(socketmode.StateConnected.CanTransitionTo(socketmode.StateReconnecting))
	fmt.Println(socketmode.StateClosed.CanTransitionTo(socketmode.StateConnecting))
	// Output:
	// true
	// false
}

func ExampleReconnector() {
	r := socketmode.NewReconnector(socketmode.ReconnectorConfig{
		Policy: retry.NewIntervalPolicy(retry.IntervalConfig{
			Base:       time.Second,
			Multiplier: 2.0,
		}),
		MaxAttempts: 3,
	})

	for {
		delay, err := r.Next()
		if err != nil {
			fmt.Println("give up:", err)
			return
		}
		fmt.Println("next attempt in", delay)
	}
	// Output:
	// next attempt in 1s
	// next attempt in 2s
	// next attempt in 4s
	// give up: socketmode: reconnect attempts exhausted
}

func ExampleDispatcher() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := socketmode.NewDispatcher(socketmode.DispatcherConfig{})
	handled := make(chan string, 1)
	d.On(socketmode.TypeEventsAPI, func(ctx context.Context, env socketmode.Envelope) {
		handled <- env.EnvelopeID
	})
	go d.Run(ctx)

	env := socketmode.Envelope{
		Type:       socketmode.TypeEventsAPI,
		EnvelopeID: "env-1",
		Payload:    json.RawMessage(`{"event":{"type":"message"}}`),
	}
	ack := func(ctx context.Context, a socketmode.Ack) error {
		fmt.Println("acked", a.EnvelopeID)
		return nil
	}
	if err := d.Dispatch(ctx, env, ack); err != nil {
		fmt.Println("dispatch:", err)
		return
	}
	fmt.Println("handled", <-handled)
	// Output:
	// acked env-1
	// handled env-1
}
