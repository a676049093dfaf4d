package testutil

import (
	"testing"
)

func TestSetupSQLite(t *testing.T) {
	db := SetupSQLite(t)

	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		t.Fatalf("failed to execute query: %v", err)
	}
	if result != 1 {
		t.Errorf("expected 1, got %d", result)
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("failed to read pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestCatalogAssertions(t *testing.T) {
	db := SetupSQLite(t)

	ExecSQL(t, db, "CREATE TABLE test_table (id INTEGER PRIMARY KEY, name TEXT)")
	ExecSQL(t, db, `CREATE INDEX "idx-test-name" ON test_table (name)`)
	ExecSQL(t, db, "INSERT INTO test_table (name) VALUES ('a'), ('b')")

	AssertTableExists(t, db, "test_table")
	AssertTableNotExists(t, db, "missing_table")
	AssertColumnExists(t, db, "test_table", "name")
	AssertColumnNotExists(t, db, "test_table", "email")
	AssertIndexExists(t, db, "test_table", "idx-test-name")
	AssertIndexNotExists(t, db, "test_table", "idx_missing")
	AssertRowCount(t, db, "test_table", 2)
}

func TestQuerySQL(t *testing.T) {
	db := SetupSQLite(t)

	rows := QuerySQL(t, db, "SELECT 1 UNION ALL SELECT 2")
	n := 0
	for rows.Next() {
		n++
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}
