package dialect

import (
	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/sqlgen"
	"github.com/hlop3z/schemakit/internal/types"
)

// postgres implements the Dialect interface for PostgreSQL.
type postgres struct {
	base
}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	d := &postgres{}
	d.base = base{
		name:             "postgres",
		flavor:           sqlgen.Postgres,
		trueLit:          "TRUE",
		falseLit:         "FALSE",
		transactionalDDL: true,
		nativeEnums:      true,
		indexIfNotExists: true,
		specialType:      d.specialType,
		primaryKey: func(b *sqlgen.Builder, _ *ast.ColumnDef) {
			b.PrimaryKey()
		},
	}
	return d
}

// serialTypes maps integer kinds to their auto-incrementing pseudo-types.
var serialTypes = map[string]string{
	types.SmallInteger: "SMALLSERIAL",
	types.Integer:      "SERIAL",
	types.BigInteger:   "BIGSERIAL",
}

func (d *postgres) specialType(col *ast.ColumnDef) (string, bool, error) {
	kind := types.Normalize(col.Type)
	switch kind {
	case types.Array:
		elem, err := types.Lookup(col.Elem)
		if err != nil {
			return "", false, err
		}
		if !elem.ArrayElem {
			return "", false, alerr.New(alerr.ErrInvalidModifier, "kind cannot be an array element").
				WithColumn(col.Name).
				With("elem", col.Elem)
		}
		return elem.SQLTypes.Postgres + "[]", true, nil
	case types.Enum:
		return d.QuoteIdent(col.EnumName), true, nil
	case types.Interval:
		return intervalSQL(col), true, nil
	}
	if col.AutoIncrement {
		if serial, ok := serialTypes[kind]; ok {
			return serial, true, nil
		}
	}
	return "", false, nil
}

// CreateEnumTypeSQL renders CREATE TYPE ... AS ENUM.
func (d *postgres) CreateEnumTypeSQL(op *ast.CreateEnumType) (string, error) {
	return d.builder().Raw("CREATE TYPE ").Ident(op.Name).
		Raw(" AS ENUM").OpenParen().Raw(sqlgen.QuoteStrings(op.Values...)).CloseParen().
		String(), nil
}

// DropEnumTypeSQL renders DROP TYPE.
func (d *postgres) DropEnumTypeSQL(op *ast.DropEnumType) (string, error) {
	b := d.builder().Raw("DROP TYPE ")
	if op.IfExists {
		b.Raw("IF EXISTS ")
	}
	return b.Ident(op.Name).String(), nil
}
