// Package env reads process environment variables with fallbacks. Structured
// configuration goes through pkg/config; this covers the handful of knobs
// needed before config is loaded.
package env

import "os"

// Get returns the environment variable named by key, or fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
