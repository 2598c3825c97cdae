package testutils

import (
	"os"
	"testing"
)

// GetEnvOrDefault gets an environment variable with a default value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// RequireEnv skips the test unless the env var is present. Store tests use it
// so they only run against a real database.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}
