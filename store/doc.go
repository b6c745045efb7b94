// Package store persists the marketplace event stream to PostgreSQL. The
// journal is append-only and strictly downstream of the engine: rows are
// written from the event sink and never read back into engine state. It
// additionally maintains a period snapshot table for off-engine indexers.
package store
