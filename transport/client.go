package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/jonwraymond/chatops/observe"
	"github.com/jonwraymond/chatops/retry"
)

// Request describes one HTTP exchange with the platform's Web API.
type Request struct {
	// Method is the HTTP method.
	// Default: POST
	Method string

	// URL is the full request URL.
	URL string

	// Header holds additional request headers.
	Header http.Header

	// Body is the request body. May be nil.
	Body []byte
}

// Config configures a Client.
type Config struct {
	// HTTPClient performs the underlying exchanges.
	// Default: &http.Client{Timeout: 30s}
	HTTPClient *http.Client

	// UserAgent is sent when the request carries no User-Agent header.
	UserAgent string

	// Logger receives attempt-level diagnostics.
	// Default: discard
	Logger observe.Logger
}

// Client performs single HTTP attempts and classifies their outcomes.
// Safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	logger    observe.Logger
}

// NewClient creates a Client with defaults applied.
func NewClient(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &Client{
		http:      config.HTTPClient,
		userAgent: config.UserAgent,
		logger:    config.Logger,
	}
}

// Perform executes exactly one physical attempt.
func (c *Client) Perform(ctx context.Context, req Request) retry.Outcome {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	hr, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		// A request that cannot be built will never succeed.
		return retry.FatalFailure(err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if c.userAgent != "" && hr.Header.Get("User-Agent") == "" {
		hr.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(hr)
	if err != nil {
		kind := classifyNetError(err)
		c.logger.Warn(ctx, "attempt failed",
			observe.Field{Key: "url", Value: req.URL},
			observe.Field{Key: "kind", Value: kind.String()},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return retry.TransportFailure(kind, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// Response interrupted mid-stream.
		return retry.TransportFailure(retry.KindConnectionReset, err)
	}

	return retry.Success(resp.StatusCode, resp.Header, respBody)
}

// Attempt adapts a Request into a retry.AttemptFunc.
func (c *Client) Attempt(req Request) retry.AttemptFunc {
	return func(ctx context.Context) retry.Outcome {
		return c.Perform(ctx, req)
	}
}

// classifyNetError maps a transport-level error to its outcome kind.
func classifyNetError(err error) retry.TransportErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return retry.KindTimedOut
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return retry.KindTimedOut
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF) {
		return retry.KindConnectionReset
	}
	return retry.KindConnectFailed
}
