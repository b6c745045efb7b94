// Package pricing computes the currently payable price of a period under
// each sale protocol. Price functions are pure: they read the period and a
// caller-supplied timestamp and never touch engine state.
package pricing
