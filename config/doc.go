// Package config loads kaleidod configuration from a YAML file with
// environment variable overrides (KALEIDO_ prefix).
package config
