package socketmode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonwraymond/chatops/retry"
	"github.com/jonwraymond/chatops/transport"
)

// Bootstrap obtains a short-lived channel URL from the platform's
// REST bootstrap endpoint. Each URL is single-use: a dropped channel
// requires a fresh Open call, not a redial of the previous URL.
type Bootstrap interface {
	Open(ctx context.Context) (string, error)
}

// RESTBootstrapConfig configures a RESTBootstrap.
type RESTBootstrapConfig struct {
	// Client performs the bootstrap call. Required.
	Client *transport.Client

	// URL is the bootstrap endpoint. Required.
	URL string

	// Engine retries transient bootstrap failures.
	// Default: retry.NewEngine with default classifiers
	Engine *retry.Engine
}

// RESTBootstrap opens event channels by calling the connections-open
// endpoint through the retry engine.
type RESTBootstrap struct {
	client *transport.Client
	url    string
	engine *retry.Engine
}

// NewRESTBootstrap creates a RESTBootstrap with defaults applied.
func NewRESTBootstrap(config RESTBootstrapConfig) (*RESTBootstrap, error) {
	if config.Client == nil || config.URL == "" {
		return nil, ErrNoBootstrap
	}
	if config.Engine == nil {
		config.Engine = retry.NewEngine(retry.EngineConfig{})
	}
	return &RESTBootstrap{
		client: config.Client,
		url:    config.URL,
		engine: config.Engine,
	}, nil
}

// Open implements Bootstrap.
func (b *RESTBootstrap) Open(ctx context.Context) (string, error) {
	result, err := b.engine.Do(ctx, b.client.Attempt(transport.Request{
		Method: http.MethodPost,
		URL:    b.url,
	}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}
	outcome := result.Outcome
	if !outcome.IsSuccess() {
		return "", fmt.Errorf("%w: %v", ErrBootstrapFailed, outcome.Err)
	}
	if outcome.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrBootstrapFailed, outcome.StatusCode)
	}

	var body struct {
		OK    bool   `json:"ok"`
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(outcome.Body, &body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrBootstrapFailed, err)
	}
	if !body.OK {
		return "", fmt.Errorf("%w: %s", ErrBootstrapFailed, body.Error)
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: no channel url in response", ErrBootstrapFailed)
	}
	return body.URL, nil
}
