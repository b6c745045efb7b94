// Package testutil provides shared fixtures for marketplace tests: a
// manually advanced clock and canonical scenario accounts.
package testutil
