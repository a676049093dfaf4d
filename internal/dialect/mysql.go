package dialect

import (
	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/sqlgen"
	"github.com/hlop3z/schemakit/internal/types"
)

// mysql implements the Dialect interface for MySQL 8.
type mysql struct {
	base
}

// MySQL returns the MySQL dialect implementation.
func MySQL() Dialect {
	d := &mysql{}
	d.base = base{
		name:        "mysql",
		flavor:      sqlgen.MySQL,
		trueLit:     "TRUE",
		falseLit:    "FALSE",
		specialType: d.specialType,
		primaryKey: func(b *sqlgen.Builder, col *ast.ColumnDef) {
			b.NotNull()
			if col.AutoIncrement {
				b.Keyword("AUTO_INCREMENT")
			}
			b.PrimaryKey()
		},
		literal: func(kind, lit string) string {
			// TEXT columns only take expression defaults
			if kind == types.Text {
				return "(" + lit + ")"
			}
			return lit
		},
	}
	return d
}

func (d *mysql) specialType(col *ast.ColumnDef) (string, bool, error) {
	switch types.Normalize(col.Type) {
	case types.Array:
		return "", false, alerr.Unsupported(d.name, "array columns").WithColumn(col.Name)
	case types.Enum:
		if len(col.Values) == 0 {
			return "VARCHAR(255)", true, nil
		}
		return "ENUM(" + sqlgen.QuoteStrings(col.Values...) + ")", true, nil
	}
	return "", false, nil
}

// DropIndexSQL renders DROP INDEX ... ON, since MySQL scopes index names to
// their table.
func (d *mysql) DropIndexSQL(op *ast.DropIndex) (string, error) {
	if op.TableName == "" {
		return "", alerr.New(alerr.ErrSchemaInvalid, "table name is required to drop an index").
			WithDialect(d.name).
			With("index", op.Name)
	}
	if op.IfExists {
		return "", alerr.Unsupported(d.name, "DROP INDEX IF EXISTS").WithTable(op.TableName)
	}
	return d.builder().Raw("DROP INDEX ").Ident(op.Name).Raw(" ON ").Ident(op.TableName).String(), nil
}

// DropForeignKeySQL renders ALTER TABLE ... DROP FOREIGN KEY.
func (d *mysql) DropForeignKeySQL(op *ast.DropForeignKey) (string, error) {
	return d.builder().AlterTable(op.TableName).Raw(" DROP FOREIGN KEY ").Ident(op.Name).String(), nil
}
