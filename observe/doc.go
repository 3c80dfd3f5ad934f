// Package observe provides observability primitives for the client SDK.
//
// It is a pure instrumentation library: no transport, no retry logic,
// no I/O beyond exporter setup. The retry engine and the socket-mode
// connection manager accept its Logger and Metrics to report attempts,
// reconnects, and envelope traffic.
package observe
