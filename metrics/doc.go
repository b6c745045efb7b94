// Package metrics exposes Prometheus instrumentation for the marketplace:
// per-operation outcome counters, routed-fee totals, and a standalone
// metrics HTTP server.
package metrics
