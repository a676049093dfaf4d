package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FixturePath returns the absolute path of a fixture under the project's
// testdata/ directory.
//
// Example:
//
//	path := testutil.FixturePath(t, "plans/users.yaml")
func FixturePath(t *testing.T, relativePath string) string {
	t.Helper()

	return filepath.Join(findProjectRoot(t), "testdata", relativePath)
}

// LoadFixture loads a fixture file under testdata/ as a string.
func LoadFixture(t *testing.T, relativePath string) string {
	t.Helper()

	content, err := os.ReadFile(FixturePath(t, relativePath))
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", relativePath, err)
	}

	return string(content)
}

// FixtureExists checks if a fixture file exists.
func FixtureExists(t *testing.T, relativePath string) bool {
	t.Helper()

	_, err := os.Stat(FixturePath(t, relativePath))
	return err == nil
}

// findProjectRoot walks up the directory tree to find the project root (go.mod location).
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
