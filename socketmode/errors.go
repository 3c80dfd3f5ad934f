package socketmode

import "errors"

var (
	// ErrIllegalTransition is returned when a connection state change
	// is not permitted by the lifecycle transition table.
	ErrIllegalTransition = errors.New("socketmode: illegal state transition")

	// ErrReconnectExhausted is returned when reconnection attempts
	// exceed the configured ceiling.
	ErrReconnectExhausted = errors.New("socketmode: reconnect attempts exhausted")

	// ErrConnClosed indicates the peer closed the event channel. It is
	// distinct from a decode failure on a received frame.
	ErrConnClosed = errors.New("socketmode: connection closed")

	// ErrDecode indicates a received frame could not be decoded as an
	// envelope. The channel itself is still usable.
	ErrDecode = errors.New("socketmode: malformed frame")

	// ErrNoBootstrap is returned when a Manager is started without a
	// bootstrap capability.
	ErrNoBootstrap = errors.New("socketmode: bootstrap capability required")

	// ErrBootstrapFailed is returned when the bootstrap endpoint does
	// not yield a usable channel URL.
	ErrBootstrapFailed = errors.New("socketmode: bootstrap call failed")

	// ErrAlreadyStarted is returned when Start is called twice on the
	// same Manager. A closed Manager is not restartable.
	ErrAlreadyStarted = errors.New("socketmode: manager already started")
)
