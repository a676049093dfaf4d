// Package dialect provides database-specific SQL generation for schema
// operations. Each backend renders the same ast operations into the DDL its
// server accepts, or reports the operation as unsupported.
package dialect

import (
	"sort"
	"strings"

	"github.com/hlop3z/schemakit/internal/ast"
)

// Dialect defines the interface for database-specific SQL generation.
type Dialect interface {
	// Name returns the canonical dialect name ("postgres", "sqlite", "mysql").
	Name() string

	// Type mapping
	ColumnTypeSQL(col *ast.ColumnDef) (string, error)
	DefaultSQL(col *ast.ColumnDef) (string, error)

	// Identifier quoting and bind placeholders
	QuoteIdent(name string) string
	Placeholder(index int) string

	// Feature support
	SupportsTransactionalDDL() bool
	SupportsNativeEnums() bool

	// SQL generation for operations
	CreateTableSQL(op *ast.CreateTable) ([]string, error)
	DropTableSQL(op *ast.DropTable) (string, error)
	RenameTableSQL(op *ast.RenameTable) (string, error)
	AddColumnSQL(op *ast.AddColumn) (string, error)
	DropColumnSQL(op *ast.DropColumn) (string, error)
	RenameColumnSQL(op *ast.RenameColumn) (string, error)
	CreateIndexSQL(op *ast.CreateIndex) (string, error)
	DropIndexSQL(op *ast.DropIndex) (string, error)
	AddForeignKeySQL(op *ast.AddForeignKey) (string, error)
	DropForeignKeySQL(op *ast.DropForeignKey) (string, error)
	CreateEnumTypeSQL(op *ast.CreateEnumType) (string, error)
	DropEnumTypeSQL(op *ast.DropEnumType) (string, error)
	RawSQLFor(op *ast.RawSQL) (string, error)
}

// Get returns a dialect by name, or nil if not found.
// Driver names are accepted as aliases.
func Get(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return Postgres()
	case "sqlite", "sqlite3":
		return SQLite()
	case "mysql", "mariadb":
		return MySQL()
	default:
		return nil
	}
}

// Names returns the canonical names of all supported dialects.
func Names() []string {
	names := []string{"postgres", "sqlite", "mysql"}
	sort.Strings(names)
	return names
}

// SQL renders op into the statements the dialect executes for it, in order.
// Most operations produce one statement; CreateTable also emits its indexes.
func SQL(d Dialect, op ast.Operation) ([]string, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	var (
		stmt string
		err  error
	)
	switch o := op.(type) {
	case *ast.CreateTable:
		return d.CreateTableSQL(o)
	case *ast.DropTable:
		stmt, err = d.DropTableSQL(o)
	case *ast.RenameTable:
		stmt, err = d.RenameTableSQL(o)
	case *ast.AddColumn:
		stmt, err = d.AddColumnSQL(o)
	case *ast.DropColumn:
		stmt, err = d.DropColumnSQL(o)
	case *ast.RenameColumn:
		stmt, err = d.RenameColumnSQL(o)
	case *ast.CreateIndex:
		stmt, err = d.CreateIndexSQL(o)
	case *ast.DropIndex:
		stmt, err = d.DropIndexSQL(o)
	case *ast.AddForeignKey:
		stmt, err = d.AddForeignKeySQL(o)
	case *ast.DropForeignKey:
		stmt, err = d.DropForeignKeySQL(o)
	case *ast.CreateEnumType:
		stmt, err = d.CreateEnumTypeSQL(o)
	case *ast.DropEnumType:
		stmt, err = d.DropEnumTypeSQL(o)
	case *ast.RawSQL:
		stmt, err = d.RawSQLFor(o)
	default:
		return nil, unknownOperation(op)
	}
	if err != nil {
		return nil, err
	}
	return []string{stmt}, nil
}
