package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonwraymond/chatops/health"
)

// APIChecker reports Web API reachability as a health check by issuing
// a lightweight request against the given URL.
type APIChecker struct {
	client *Client
	url    string
}

// NewAPIChecker creates a reachability checker for the given endpoint.
func NewAPIChecker(client *Client, url string) *APIChecker {
	return &APIChecker{client: client, url: url}
}

// Name implements health.Checker.
func (c *APIChecker) Name() string {
	return "web_api"
}

// Check implements health.Checker.
func (c *APIChecker) Check(ctx context.Context) health.Result {
	outcome := c.client.Perform(ctx, Request{Method: http.MethodGet, URL: c.url})

	switch {
	case outcome.IsTransportError() || outcome.IsFatal():
		return health.Unhealthy("api unreachable", outcome.Err)
	case outcome.StatusCode >= 500:
		return health.Degraded(fmt.Sprintf("api returned %d", outcome.StatusCode))
	default:
		return health.Healthy("api reachable").WithDetails(map[string]any{
			"status_code": outcome.StatusCode,
		})
	}
}
