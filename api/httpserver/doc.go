// Package httpserver serves the marketplace facade over HTTP.
//
// The BaseServer provides the operational shell shared by any handler set:
// liveness/readiness endpoints, drain control for load balancers, optional
// pprof and Prometheus metrics, structured request logging, and graceful
// shutdown. The marketplace Handler registers the business routes and maps
// engine error kinds to HTTP status codes.
//
// Callers identify themselves through the X-Kaleido-Account header; the
// deployment in front of the server is expected to authenticate it.
package httpserver
