package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// SkipIfShort skips the test if running in short mode.
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
}

// RequireEnv ensures an environment variable is set, or skips the test.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()

	value := os.Getenv(key)
	if value == "" {
		t.Skipf("Required environment variable %s not set", key)
	}

	return value
}

// Must asserts that err is nil, or fails the test immediately.
//
// Example:
//
//	testutil.Must(t, os.WriteFile(path, data, 0644))
func Must(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// MustValue asserts that err is nil, or fails the test immediately.
// Returns the value on success.
//
// Example:
//
//	db := testutil.MustValue(t, sql.Open("sqlite", dsn))
func MustValue[T any](t *testing.T, value T, err error) T {
	t.Helper()

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	return value
}

// UniqueName returns prefix followed by a random suffix that is a valid
// unquoted identifier on every backend.
func UniqueName(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
