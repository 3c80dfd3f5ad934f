// Package health provides liveness reporting for the SDK's long-lived
// components. The socket-mode connection manager reports its channel
// state as a Checker; the Web API transport can report endpoint
// reachability. An Aggregator combines them into one rollup that host
// applications can expose however they like.
package health
