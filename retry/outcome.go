package retry

import (
	"net/http"
	"strconv"
	"time"
)

// TransportErrorKind classifies a transport-level failure.
type TransportErrorKind int

const (
	// KindConnectFailed means the connection could not be established.
	KindConnectFailed TransportErrorKind = iota
	// KindTimedOut means the attempt did not complete within its deadline.
	KindTimedOut
	// KindConnectionReset means the peer reset an established connection.
	KindConnectionReset
)

// String returns the string representation of the kind.
func (k TransportErrorKind) String() string {
	switch k {
	case KindConnectFailed:
		return "connect_failed"
	case KindTimedOut:
		return "timed_out"
	case KindConnectionReset:
		return "connection_reset"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one physical network attempt:
// either a completed HTTP exchange (any status code) or a transport
// failure. Outcomes are immutable once produced.
type Outcome struct {
	// StatusCode is the HTTP status code. Zero when no response was
	// received.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the raw response body.
	Body []byte

	// Err is the transport or fatal error. Nil for completed exchanges.
	Err error

	// Kind classifies Err when the attempt failed at the transport level.
	Kind TransportErrorKind

	fatal bool
}

// Success builds an Outcome for a completed HTTP exchange.
func Success(statusCode int, header http.Header, body []byte) Outcome {
	return Outcome{StatusCode: statusCode, Header: header, Body: body}
}

// TransportFailure builds an Outcome for an attempt that failed before
// a response was received.
func TransportFailure(kind TransportErrorKind, err error) Outcome {
	return Outcome{Err: err, Kind: kind}
}

// FatalFailure builds an Outcome for a malformed response, such as an
// undecodable body. Fatal outcomes bypass the classifier chain and are
// never retried.
func FatalFailure(err error) Outcome {
	return Outcome{Err: err, fatal: true}
}

// IsSuccess reports whether the attempt completed with a response.
func (o Outcome) IsSuccess() bool {
	return o.Err == nil
}

// IsTransportError reports whether the attempt failed at the transport
// level.
func (o Outcome) IsTransportError() bool {
	return o.Err != nil && !o.fatal
}

// IsFatal reports whether the outcome must be surfaced immediately
// without consulting the classifier chain.
func (o Outcome) IsFatal() bool {
	return o.fatal
}

// HeaderValue returns a response header by name, case-insensitively.
// Returns "" when no response was received.
func (o Outcome) HeaderValue(name string) string {
	if o.Header == nil {
		return ""
	}
	return o.Header.Get(name)
}

// RetryAfter parses the Retry-After response header as a number of
// seconds. The second return value reports whether the header was
// present and well-formed.
func (o Outcome) RetryAfter() (time.Duration, bool) {
	v := o.HeaderValue("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
