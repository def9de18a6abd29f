package env

import "os"

// Get returns the value of the environment variable or a fallback. Used by
// packages that initialize before envconfig has parsed the full config.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
