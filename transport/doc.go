// Package transport provides the HTTP executor consumed by the retry
// engine: it performs exactly one physical attempt per call and
// classifies the result into a retry.Outcome. It carries no retry
// logic of its own.
//
// # Usage
//
//	client := transport.NewClient(transport.Config{
//	    HTTPClient: &http.Client{
//	        Timeout:   30 * time.Second,
//	        Transport: &transport.TokenTransport{Token: appToken},
//	    },
//	})
//
//	engine := retry.NewEngine(retry.EngineConfig{})
//	result, err := engine.Do(ctx, client.Attempt(transport.Request{
//	    URL: "https://api.example.com/api/apps.connections.open",
//	}))
package transport
