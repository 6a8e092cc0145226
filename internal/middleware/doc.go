// Package middleware provides HTTP middleware for the slideshow server.
//
// Logger emits one line per request in W3C Extended Log Format with all
// user-controlled fields sanitized against log injection. Metrics records
// Prometheus request counters and latency histograms, normalizing file-key
// paths so label cardinality stays bounded. Both wrappers pass Flush
// through so server-sent event streams are not stalled.
package middleware
