package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration problems.
// Use errors.Is() to check for these errors. Errors reported by the database
// driver are never wrapped.
var (
	// ErrMissingDatabaseURL is returned when neither a URL nor a *sql.DB is provided.
	ErrMissingDatabaseURL = errors.New("schemakit: database URL required")

	// ErrUnsupportedDialect is returned when the dialect is not postgres, sqlite or mysql.
	ErrUnsupportedDialect = errors.New("schemakit: unsupported dialect")

	// ErrNilDB is returned when WithDB is given a nil handle.
	ErrNilDB = errors.New("schemakit: nil database handle")

	// ErrConnectionFailed is returned when the database cannot be opened or pinged.
	ErrConnectionFailed = errors.New("schemakit: connection failed")
)

// ConnectionError provides detailed information about a database connection error.
type ConnectionError struct {
	// URL is the database URL (with password redacted).
	URL string

	// Dialect is the database dialect (postgres, sqlite, mysql).
	Dialect string

	// Cause is the underlying error from the database driver.
	Cause error
}

// Error returns a formatted error message.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("schemakit: failed to connect to %s database at %s: %v", e.Dialect, e.URL, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnectionFailed
}
