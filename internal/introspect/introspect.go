// Package introspect queries database catalogs to answer existence checks
// and to describe tables as they exist on the server.
package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/dialect"
)

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn, so catalog checks
// can run inside the transaction that is changing the schema.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Introspector queries database catalogs to discover schema information.
type Introspector interface {
	// TableExists checks if a table exists in the current schema.
	TableExists(ctx context.Context, table string) (bool, error)

	// ColumnExists checks if a column exists on a table.
	ColumnExists(ctx context.Context, table, column string) (bool, error)

	// IndexExists checks if an index exists on a table.
	IndexExists(ctx context.Context, table, index string) (bool, error)

	// EnumTypeExists reports whether a native enumerated type exists.
	// Backends without native enums always report false.
	EnumTypeExists(ctx context.Context, name string) (bool, error)

	// ListTables returns user tables in name order.
	ListTables(ctx context.Context) ([]string, error)

	// Columns returns the columns of a table in declaration order.
	Columns(ctx context.Context, table string) ([]*Column, error)

	// IntrospectTable returns a single table description, or nil if not found.
	IntrospectTable(ctx context.Context, table string) (*Table, error)
}

// New creates an Introspector for the given dialect.
// Returns nil if the dialect is not supported.
func New(q Querier, d dialect.Dialect) Introspector {
	switch d.Name() {
	case "postgres":
		return &postgresIntrospector{q: q}
	case "sqlite":
		return &sqliteIntrospector{q: q, dialect: d}
	case "mysql":
		return &mysqlIntrospector{q: q}
	default:
		return nil
	}
}

// Column describes a column as reported by the catalog.
type Column struct {
	Name       string
	DataType   string         // SQL type as the server reports it
	Kind       string         // closest column kind, see MapPostgresType et al.
	Nullable   bool
	Default    sql.NullString // raw default expression
	PrimaryKey bool
	Unique     bool
	Length     int
	Precision  int
	Scale      int
}

// Table describes a table as reported by the catalog.
type Table struct {
	Name        string
	Columns     []*Column
	Indexes     []*ast.IndexDef
	ForeignKeys []*ast.ForeignKeyDef
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// normalizeAction converts a catalog referential action to the form the
// dialects render. NO ACTION is the default and is dropped.
func normalizeAction(action string) string {
	switch strings.ToUpper(action) {
	case "CASCADE":
		return "CASCADE"
	case "SET NULL":
		return "SET NULL"
	case "SET DEFAULT":
		return "SET DEFAULT"
	case "RESTRICT":
		return "RESTRICT"
	default:
		return ""
	}
}
