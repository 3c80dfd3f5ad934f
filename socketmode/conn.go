package socketmode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// Conn is one open event channel. A channel is not restartable: once
// Receive reports ErrConnClosed the caller must dial a fresh one.
type Conn interface {
	// Receive blocks for the next envelope. Closure of the channel is
	// reported as ErrConnClosed; an undecodable frame as ErrDecode,
	// with the channel still usable.
	Receive(ctx context.Context) (Envelope, error)

	// Send writes an acknowledgment frame.
	Send(ctx context.Context, ack Ack) error

	// Ping sends a liveness probe and waits for the pong.
	Ping(ctx context.Context) error

	// Close tears the channel down.
	Close() error
}

// Dialer opens an event channel against a bootstrap-issued URL.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials the platform's event channel over WebSocket.
type WebSocketDialer struct {
	// HTTPClient performs the handshake. May be nil.
	HTTPClient *http.Client
}

// Dial implements Dialer.
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: d.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("socketmode: dial %s: %w", url, err)
	}
	return &wsConn{ws: ws}, nil
}

type wsConn struct {
	ws *websocket.Conn
}

func (c *wsConn) Receive(ctx context.Context) (Envelope, error) {
	_, data, err := c.ws.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Envelope{}, ctx.Err()
		}
		return Envelope{}, fmt.Errorf("%w: %v", ErrConnClosed, err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return env, nil
}

func (c *wsConn) Send(ctx context.Context, ack Ack) error {
	data, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("socketmode: encode ack: %w", err)
	}
	return c.ws.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Ping(ctx context.Context) error {
	return c.ws.Ping(ctx)
}

func (c *wsConn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "")
}
