package utils

import "os"

// ParseWithFallback reads an environment variable, returning fallback
// when it is unset or empty.
func ParseWithFallback(envName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}

	return fallback
}
