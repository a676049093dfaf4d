package dialect

import (
	"strings"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/sqlgen"
	"github.com/hlop3z/schemakit/internal/types"
)

// sqlite implements the Dialect interface for SQLite.
type sqlite struct {
	base
}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	d := &sqlite{}
	d.base = base{
		name:             "sqlite",
		flavor:           sqlgen.SQLite,
		trueLit:          "1",
		falseLit:         "0",
		transactionalDDL: true,
		indexIfNotExists: true,
		enumCheck:        true,
		specialType:      d.specialType,
		primaryKey: func(b *sqlgen.Builder, col *ast.ColumnDef) {
			b.PrimaryKey()
			if col.AutoIncrement {
				b.Keyword("AUTOINCREMENT")
			}
		},
		expr: func(expr string) string {
			// SQLite has no NOW(); CURRENT_TIMESTAMP is the same instant
			if strings.EqualFold(expr, "NOW()") {
				return "CURRENT_TIMESTAMP"
			}
			return expr
		},
	}
	return d
}

func (d *sqlite) specialType(col *ast.ColumnDef) (string, bool, error) {
	switch types.Normalize(col.Type) {
	case types.Array:
		return "", false, alerr.Unsupported(d.name, "array columns").WithColumn(col.Name)
	case types.Enum:
		return "TEXT", true, nil
	}
	// AUTOINCREMENT is only accepted on an INTEGER PRIMARY KEY
	if col.AutoIncrement && col.PrimaryKey {
		return "INTEGER", true, nil
	}
	return "", false, nil
}

// SQLite cannot alter constraints on an existing table; foreign keys are only
// accepted inline in CREATE TABLE.

func (d *sqlite) AddForeignKeySQL(op *ast.AddForeignKey) (string, error) {
	return "", alerr.Unsupported(d.name, "ALTER TABLE ADD FOREIGN KEY").
		WithTable(op.TableName).
		WithHelp("declare the foreign key when creating the table")
}

func (d *sqlite) DropForeignKeySQL(op *ast.DropForeignKey) (string, error) {
	return "", alerr.Unsupported(d.name, "ALTER TABLE DROP FOREIGN KEY").
		WithTable(op.TableName).
		WithHelp("recreate the table without the constraint")
}
