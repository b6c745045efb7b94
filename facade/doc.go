// Package facade exposes the externally callable marketplace surface. It
// composes the auction engine, proposal workflow, account registry, escrow
// ledger, and fee vault behind one mutex, providing the serialized,
// atomic execution substrate the engine components assume.
package facade
