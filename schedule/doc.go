// Package schedule tracks period display windows per space and rejects
// overlapping reservations. It owns the authoritative interval index and
// the global space id registry.
//
// Windows are half-open [start, end): a window ending exactly when another
// begins does not overlap it.
package schedule
