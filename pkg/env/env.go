// Package env reads one-off environment switches that sit outside the
// RENTRACK_ envconfig tree, such as the log output format.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
// Empty values count as unset.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
