package socketmode

import "encoding/json"

// Envelope message types sent by the platform.
const (
	TypeEventsAPI     = "events_api"
	TypeSlashCommands = "slash_commands"
	TypeInteractive   = "interactive"
	TypeHello         = "hello"
	TypeDisconnect    = "disconnect"
)

// Envelope is one decoded unit of the event channel's wire protocol.
// Server-originated events carry an envelope id and must be
// acknowledged; control messages (hello, disconnect) carry none.
type Envelope struct {
	// Type identifies the payload kind, e.g. "events_api".
	Type string `json:"type"`

	// EnvelopeID is the acknowledgment key. Empty on control messages.
	EnvelopeID string `json:"envelope_id,omitempty"`

	// Payload is the event body, left opaque for handlers to decode.
	Payload json.RawMessage `json:"payload,omitempty"`

	// AcceptsResponsePayload reports whether the acknowledgment may
	// carry a response payload.
	AcceptsResponsePayload bool `json:"accepts_response_payload,omitempty"`

	// RetryAttempt is set when the server redelivers an event.
	RetryAttempt *int `json:"retry_attempt,omitempty"`

	// RetryReason explains a redelivery, e.g. "timeout".
	RetryReason string `json:"retry_reason,omitempty"`
}

// IsControl reports whether the envelope is an internal protocol
// control message rather than a server-originated event.
func (e Envelope) IsControl() bool {
	return e.Type == TypeHello || e.Type == TypeDisconnect
}

// RequiresAck reports whether the envelope must be acknowledged.
func (e Envelope) RequiresAck() bool {
	return e.EnvelopeID != "" && !e.IsControl()
}

// Ack acknowledges receipt of an envelope. It is sent back over the
// same channel, referencing the envelope id being acknowledged.
type Ack struct {
	EnvelopeID string `json:"envelope_id"`

	// Payload is an optional response body, honored only when the
	// envelope set AcceptsResponsePayload.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewAck creates an acknowledgment for the given envelope.
func NewAck(envelopeID string) Ack {
	return Ack{EnvelopeID: envelopeID}
}
