package introspect

import (
	"strings"

	"github.com/hlop3z/schemakit/internal/types"
)

// baseType strips bounds and modifiers: "VARCHAR(64)" -> "VARCHAR",
// "int unsigned" -> "INT UNSIGNED".
func baseType(sqlType string) string {
	upper := strings.ToUpper(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(upper, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(upper[i:], ')'); j >= 0 {
			rest = upper[i+j+1:]
		}
		upper = strings.TrimSpace(upper[:i]) + rest
	}
	return strings.Join(strings.Fields(upper), " ")
}

// MapPostgresType converts an information_schema data_type to the closest
// column kind. Unknown types map to text.
func MapPostgresType(sqlType string) string {
	switch upper := baseType(sqlType); upper {
	case "UUID":
		return types.UUID
	case "CHARACTER", "CHAR", "BPCHAR":
		return types.Char
	case "CHARACTER VARYING", "VARCHAR":
		return types.String
	case "TEXT":
		return types.Text
	case "SMALLINT", "INT2":
		return types.SmallInteger
	case "INTEGER", "INT", "INT4":
		return types.Integer
	case "BIGINT", "INT8":
		return types.BigInteger
	case "REAL", "FLOAT4":
		return types.Float
	case "DOUBLE PRECISION", "FLOAT8":
		return types.Double
	case "NUMERIC", "DECIMAL":
		return types.Decimal
	case "MONEY":
		return types.Money
	case "BOOLEAN", "BOOL":
		return types.Boolean
	case "DATE":
		return types.Date
	case "TIME", "TIME WITHOUT TIME ZONE":
		return types.Time
	case "TIMESTAMP", "TIMESTAMP WITHOUT TIME ZONE":
		return types.DateTime
	case "TIMESTAMP WITH TIME ZONE", "TIMESTAMPTZ":
		return types.TimestampTz
	case "INTERVAL":
		return types.Interval
	case "BYTEA":
		return types.Blob
	case "BIT VARYING", "VARBIT":
		return types.VarBit
	case "JSON":
		return types.JSON
	case "JSONB":
		return types.JSONBinary
	default:
		return types.Text
	}
}

// MapSQLiteType converts a declared SQLite type to the closest column kind.
// SQLite keeps the declared type text verbatim, so this mirrors what the
// sqlite dialect renders.
func MapSQLiteType(sqlType string) string {
	switch upper := baseType(sqlType); upper {
	case "CHAR":
		return types.Char
	case "VARCHAR":
		return types.String
	case "TEXT":
		return types.Text
	case "SMALLINT":
		return types.SmallInteger
	case "INTEGER", "INT":
		return types.Integer
	case "BIGINT":
		return types.BigInteger
	case "REAL", "FLOAT":
		return types.Float
	case "DOUBLE", "DOUBLE PRECISION":
		return types.Double
	case "NUMERIC", "DECIMAL":
		return types.Decimal
	case "BOOLEAN", "BOOL":
		return types.Boolean
	case "DATE":
		return types.Date
	case "TIME":
		return types.Time
	case "DATETIME", "TIMESTAMP":
		return types.DateTime
	case "BLOB":
		return types.Blob
	default:
		return types.Text
	}
}

// MapMySQLType converts an information_schema column_type to the closest
// column kind.
func MapMySQLType(sqlType string) string {
	lower := strings.ToLower(strings.TrimSpace(sqlType))
	if lower == "tinyint(1)" {
		return types.Boolean
	}
	if strings.HasPrefix(lower, "enum(") {
		return types.Enum
	}

	switch upper := baseType(sqlType); upper {
	case "CHAR":
		if strings.HasPrefix(lower, "char(36)") {
			return types.UUID
		}
		return types.Char
	case "VARCHAR":
		return types.String
	case "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT":
		return types.Text
	case "SMALLINT":
		return types.SmallInteger
	case "SMALLINT UNSIGNED":
		return types.SmallUnsigned
	case "INT", "INTEGER", "MEDIUMINT":
		return types.Integer
	case "INT UNSIGNED", "INTEGER UNSIGNED":
		return types.Unsigned
	case "BIGINT":
		return types.BigInteger
	case "BIGINT UNSIGNED":
		return types.BigUnsigned
	case "FLOAT":
		return types.Float
	case "DOUBLE", "REAL":
		return types.Double
	case "DECIMAL", "NUMERIC":
		return types.Decimal
	case "BOOL", "BOOLEAN", "TINYINT":
		return types.Boolean
	case "DATE":
		return types.Date
	case "TIME":
		return types.Time
	case "DATETIME":
		return types.DateTime
	case "TIMESTAMP":
		return types.TimestampTz
	case "BINARY":
		return types.Binary
	case "VARBINARY":
		return types.VarBinary
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return types.Blob
	case "BIT":
		return types.VarBit
	case "JSON":
		return types.JSON
	default:
		return types.Text
	}
}
