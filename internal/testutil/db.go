package testutil

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// SetupSQLite creates a file-backed SQLite database in t.TempDir() with
// foreign keys enabled. A file is used rather than :memory: so every pooled
// connection sees the same database.
// The connection is automatically closed when the test completes.
func SetupSQLite(t *testing.T) *sql.DB {
	t.Helper()

	return SetupSQLiteFile(t, filepath.Join(t.TempDir(), "test.db"))
}

// SQLiteDSN returns the DSN SetupSQLiteFile opens for path.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// SetupSQLiteFile opens a SQLite database at path.
func SetupSQLiteFile(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		t.Fatalf("failed to open sqlite file: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping sqlite: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// -----------------------------------------------------------------------------
// Catalog Assertions
// -----------------------------------------------------------------------------

// AssertTableExists checks that a table exists in the database.
// Works with every supported backend.
func AssertTableExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()

	exists, err := tableExists(db, table)
	if err != nil {
		t.Fatalf("failed to check if table exists: %v", err)
	}

	if !exists {
		t.Errorf("expected table %q to exist, but it does not", table)
	}
}

// AssertTableNotExists checks that a table does not exist in the database.
func AssertTableNotExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()

	exists, err := tableExists(db, table)
	if err != nil {
		t.Fatalf("failed to check if table exists: %v", err)
	}

	if exists {
		t.Errorf("expected table %q to not exist, but it does", table)
	}
}

// tableExists probes the table with a zero-row select, which every backend
// accepts, and classifies the "missing" error.
func tableExists(db *sql.DB, table string) (bool, error) {
	_, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 0")
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AssertColumnExists checks that a column exists in a table.
func AssertColumnExists(t *testing.T, db *sql.DB, table, column string) {
	t.Helper()

	exists, err := columnExists(db, table, column)
	if err != nil {
		t.Fatalf("failed to check if column exists: %v", err)
	}

	if !exists {
		t.Errorf("expected column %q to exist in table %q, but it does not", column, table)
	}
}

// AssertColumnNotExists checks that a column does not exist in a table.
func AssertColumnNotExists(t *testing.T, db *sql.DB, table, column string) {
	t.Helper()

	exists, err := columnExists(db, table, column)
	if err != nil {
		t.Fatalf("failed to check if column exists: %v", err)
	}

	if exists {
		t.Errorf("expected column %q to not exist in table %q, but it does", column, table)
	}
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	_, err := db.Exec("SELECT " + column + " FROM " + table + " LIMIT 0")
	if err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "column") || isMissing(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isMissing(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "does not exist") ||
		strings.Contains(errStr, "doesn't exist") ||
		strings.Contains(errStr, "no such table")
}

// AssertIndexExists checks that an index exists on a table.
func AssertIndexExists(t *testing.T, db *sql.DB, table, index string) {
	t.Helper()

	exists, err := indexExists(db, table, index)
	if err != nil {
		t.Fatalf("failed to check if index exists: %v", err)
	}

	if !exists {
		t.Errorf("expected index %q to exist on table %q, but it does not", index, table)
	}
}

// AssertIndexNotExists checks that an index does not exist on a table.
func AssertIndexNotExists(t *testing.T, db *sql.DB, table, index string) {
	t.Helper()

	exists, err := indexExists(db, table, index)
	if err != nil {
		t.Fatalf("failed to check if index exists: %v", err)
	}

	if exists {
		t.Errorf("expected index %q to not exist on table %q, but it does", index, table)
	}
}

// indexExists tries each backend's catalog in turn until one answers.
func indexExists(db *sql.DB, table, index string) (bool, error) {
	var exists bool

	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE tablename = $1 AND indexname = $2
		)
	`, table, index).Scan(&exists)
	if err == nil {
		return exists, nil
	}

	var n int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND tbl_name = ? AND name = ?
	`, table, index).Scan(&n)
	if err == nil {
		return n > 0, nil
	}

	err = db.QueryRow(`
		SELECT COUNT(*) FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
	`, table, index).Scan(&n)
	if err == nil {
		return n > 0, nil
	}
	return false, err
}

// -----------------------------------------------------------------------------
// Statement Helpers
// -----------------------------------------------------------------------------

// ExecSQL executes a SQL statement and fails the test on error.
func ExecSQL(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()

	_, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("failed to execute SQL:\n%s\nerror: %v", query, err)
	}
}

// QuerySQL executes a query and returns the result rows.
// The rows are automatically closed when the test completes.
func QuerySQL(t *testing.T, db *sql.DB, query string, args ...any) *sql.Rows {
	t.Helper()

	rows, err := db.Query(query, args...)
	if err != nil {
		t.Fatalf("failed to query SQL:\n%s\nerror: %v", query, err)
	}

	t.Cleanup(func() {
		rows.Close()
	})

	return rows
}

// AssertRowCount checks that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}
