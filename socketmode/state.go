package socketmode

import "fmt"

// State models the lifecycle of the event channel.
type State int

const (
	// StateDisconnected is the initial state before Start.
	StateDisconnected State = iota

	// StateConnecting covers the first bootstrap and dial.
	StateConnecting

	// StateConnected means the channel is open and envelopes flow.
	StateConnected

	// StateDraining means Stop was requested and queued work is being
	// flushed before shutdown.
	StateDraining

	// StateReconnecting means the channel dropped and a reconnect
	// attempt is scheduled.
	StateReconnecting

	// StateClosed is terminal. A closed Manager is not restartable.
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDraining:
		return "draining"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// transitions is the legal-transition table. Anything absent here is
// an illegal transition and must surface as an error, never happen
// silently.
var transitions = map[State][]State{
	StateDisconnected: {StateConnecting},
	StateConnecting:   {StateConnected, StateReconnecting, StateClosed},
	StateConnected:    {StateReconnecting, StateDraining},
	StateDraining:     {StateClosed},
	StateReconnecting: {StateConnected, StateClosed},
	StateClosed:       {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s State) CanTransitionTo(next State) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// checkTransition returns ErrIllegalTransition when moving from s to
// next is not permitted.
func checkTransition(s, next State) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return nil
}
