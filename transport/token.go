package transport

import "net/http"

// TokenTransport is an http.RoundTripper that injects a bearer token
// into outgoing requests that carry no Authorization header. The token
// is an opaque platform credential; the transport never inspects it.
type TokenTransport struct {
	// Token is the platform credential.
	Token string

	// Base performs the exchange after injection.
	// Default: http.DefaultTransport
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Token == "" || req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}

	// Per RoundTripper contract the request must not be mutated.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.Token)
	return base.RoundTrip(clone)
}
