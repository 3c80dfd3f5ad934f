// Package socketmode keeps a long-lived duplex event channel to the
// chat platform alive, re-establishing it after failures without
// losing or duplicating events.
//
// The Manager owns the connection lifecycle (Disconnected, Connecting,
// Connected, Draining, Reconnecting, Closed) and serializes every
// transition on its run loop. Envelopes received over the channel are
// acknowledged on handoff and delivered to registered handlers through
// a bounded work queue, so a slow handler never stalls the receive
// loop or the keepalive probe. When the channel drops, the Reconnector
// schedules reopen attempts with the same backoff policy the retry
// package uses for HTTP calls; channel URLs are single-use, so every
// reopen starts from the REST bootstrap endpoint.
//
// # Usage
//
//	bootstrap, err := socketmode.NewRESTBootstrap(socketmode.RESTBootstrapConfig{
//	    Client: transport.NewClient(transport.Config{
//	        HTTPClient: &http.Client{Transport: &transport.TokenTransport{Token: appToken}},
//	    }),
//	    URL: "https://api.example.com/apps.connections.open",
//	})
//	if err != nil {
//	    return err
//	}
//
//	manager, err := socketmode.NewManager(socketmode.ManagerConfig{
//	    Bootstrap: bootstrap,
//	})
//	if err != nil {
//	    return err
//	}
//	manager.On(socketmode.TypeEventsAPI, func(ctx context.Context, env socketmode.Envelope) {
//	    // decode env.Payload and act on it
//	})
//
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop()
//	<-manager.Done()
package socketmode
