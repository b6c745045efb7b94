// Package cmd contains the kaleido-core binaries.
//
// kaleidod is the marketplace daemon: it assembles the in-memory engine,
// the event journal, and the HTTP API into a single process.
package cmd
