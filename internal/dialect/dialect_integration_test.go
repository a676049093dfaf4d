//go:build integration

// Integration tests verify that generated SQL executes on real servers.
//
// Run with: go test ./internal/dialect -tags=integration
package dialect_test

import (
	"database/sql"
	"testing"

	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/dialect"
	"github.com/hlop3z/schemakit/internal/testutil"
	"github.com/hlop3z/schemakit/internal/types"
)

func run(t *testing.T, db *sql.DB, d dialect.Dialect, ops ...ast.Operation) {
	t.Helper()

	for _, op := range ops {
		stmts, err := dialect.SQL(d, op)
		if err != nil {
			t.Fatalf("%s: failed to generate SQL: %v", op.Type(), err)
		}
		for _, stmt := range stmts {
			testutil.ExecSQL(t, db, stmt)
		}
	}
}

func allKindsTable() *ast.CreateTable {
	return &ast.CreateTable{
		Name: "all_kinds",
		Columns: []*ast.ColumnDef{
			{Name: "id", Type: types.PkAuto, PrimaryKey: true, AutoIncrement: true},
			{Name: "code", Type: types.Char, Length: 3},
			{Name: "name", Type: types.String, Length: 120},
			{Name: "body", Type: types.Text, Nullable: true},
			{Name: "small", Type: types.SmallInteger, Default: 0, DefaultSet: true},
			{Name: "big", Type: types.BigInteger, Nullable: true},
			{Name: "price", Type: types.Decimal, Precision: 10, Scale: 2, Default: 0, DefaultSet: true},
			{Name: "ratio", Type: types.Double, Nullable: true},
			{Name: "active", Type: types.Boolean, Default: false, DefaultSet: true},
			{Name: "born_on", Type: types.Date, Nullable: true},
			{Name: "seen_at", Type: types.DateTime, Nullable: true},
			{Name: "created_at", Type: types.TimestampTz, Default: ast.Expr(ast.CurrentTimestamp), DefaultSet: true},
			{Name: "payload", Type: types.JSONBinary, Nullable: true},
			{Name: "external_id", Type: types.UUID, Nullable: true},
			{Name: "balance", Type: types.Money, Nullable: true},
		},
	}
}

// =============================================================================
// PostgreSQL
// =============================================================================

func TestAllKinds_Postgres(t *testing.T) {
	db := testutil.SetupPostgres(t)
	d := dialect.Postgres()

	run(t, db, d,
		&ast.CreateEnumType{Name: "mood", Values: []string{"happy", "sad"}},
		allKindsTable(),
		&ast.AddColumn{
			TableRef: ast.TableRef{TableName: "all_kinds"},
			Column:   &ast.ColumnDef{Name: "mood", Type: types.Enum, EnumName: "mood", Default: "happy", DefaultSet: true},
		},
		&ast.AddColumn{
			TableRef: ast.TableRef{TableName: "all_kinds"},
			Column:   &ast.ColumnDef{Name: "tags", Type: types.Array, Elem: types.String, Nullable: true},
		},
		&ast.AddColumn{
			TableRef: ast.TableRef{TableName: "all_kinds"},
			Column:   &ast.ColumnDef{Name: "span", Type: types.Interval, IntervalFields: "DAY TO SECOND", Nullable: true},
		},
	)

	testutil.AssertTableExists(t, db, "all_kinds")
	testutil.AssertColumnExists(t, db, "all_kinds", "mood")
	testutil.ExecSQL(t, db, `INSERT INTO all_kinds (code, name) VALUES ('abc', 'x')`)
	testutil.AssertRowCount(t, db, "all_kinds", 1)
}

func TestForeignKeys_Postgres(t *testing.T) {
	db := testutil.SetupPostgres(t)
	d := dialect.Postgres()

	run(t, db, d,
		&ast.CreateTable{Name: "users", Columns: []*ast.ColumnDef{
			{Name: "id", Type: types.PkAuto, PrimaryKey: true, AutoIncrement: true},
		}},
		&ast.CreateTable{Name: "posts", Columns: []*ast.ColumnDef{
			{Name: "id", Type: types.PkAuto, PrimaryKey: true, AutoIncrement: true},
			{Name: "user_id", Type: types.Integer},
		}},
		&ast.AddForeignKey{
			TableRef: ast.TableRef{TableName: "posts"},
			ForeignKeyDef: ast.ForeignKeyDef{
				Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}, OnDelete: "cascade",
			},
		},
		&ast.DropForeignKey{TableRef: ast.TableRef{TableName: "posts"}, Name: "fk_posts_user_id"},
		&ast.DropTable{Name: "users", Cascade: true},
	)

	testutil.AssertTableNotExists(t, db, "users")
}

// =============================================================================
// MySQL
// =============================================================================

func TestAllKinds_MySQL(t *testing.T) {
	db := testutil.SetupMySQL(t)
	d := dialect.MySQL()

	run(t, db, d,
		allKindsTable(),
		&ast.AddColumn{
			TableRef: ast.TableRef{TableName: "all_kinds"},
			Column:   &ast.ColumnDef{Name: "mood", Type: types.Enum, EnumName: "mood", Values: []string{"happy", "sad"}, Default: "happy", DefaultSet: true},
		},
		&ast.AddColumn{
			TableRef: ast.TableRef{TableName: "all_kinds"},
			Column:   &ast.ColumnDef{Name: "notes", Type: types.Text, Default: "none", DefaultSet: true},
		},
		&ast.CreateIndex{TableRef: ast.TableRef{TableName: "all_kinds"}, Name: "idx-all-kinds-name", Columns: []string{"name"}},
		&ast.DropIndex{TableRef: ast.TableRef{TableName: "all_kinds"}, Name: "idx-all-kinds-name"},
		&ast.RenameTable{OldName: "all_kinds", NewName: "every_kind"},
	)

	testutil.AssertTableExists(t, db, "every_kind")
	testutil.ExecSQL(t, db, "INSERT INTO every_kind (code, name) VALUES ('abc', 'x')")
	testutil.AssertRowCount(t, db, "every_kind", 1)
}
