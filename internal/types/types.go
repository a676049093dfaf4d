// Package types defines the closed set of logical column kinds and how each one
// maps to a concrete SQL type on every supported backend.
//
// A kind says what a column holds. Nullability, uniqueness and defaults are
// orthogonal modifiers carried on the column definition, never encoded in the
// kind name.
package types

import (
	"sort"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/strutil"
)

// Kind names.
const (
	PkAuto        = "pk_auto"
	PkUUID        = "pk_uuid"
	Char          = "char"
	String        = "string"
	Text          = "text"
	SmallInteger  = "small_integer"
	Integer       = "integer"
	BigInteger    = "big_integer"
	SmallUnsigned = "small_unsigned"
	Unsigned      = "unsigned"
	BigUnsigned   = "big_unsigned"
	Decimal       = "decimal"
	Float         = "float"
	Double        = "double"
	Boolean       = "boolean"
	Date          = "date"
	Time          = "time"
	DateTime      = "date_time"
	TimestampTz   = "timestamp_tz"
	Interval      = "interval"
	Binary        = "binary"
	VarBinary     = "var_binary"
	Blob          = "blob"
	JSON          = "json"
	JSONBinary    = "json_binary"
	UUID          = "uuid"
	Money         = "money"
	VarBit        = "var_bit"
	Array         = "array"
	Enum          = "enum"
)

// -----------------------------------------------------------------------------
// TypeDef - Kind definition
// -----------------------------------------------------------------------------

// Category groups kinds by how their default literals are encoded.
type Category int

const (
	CategoryText     Category = iota // quoted string literal
	CategoryInteger                  // integer literal
	CategoryExact                    // exact decimal literal
	CategoryFloat                    // floating point literal
	CategoryBoolean                  // TRUE/FALSE or 1/0
	CategoryTemporal                 // quoted date/time literal or time expression
	CategoryUUID                     // server-side expression
	CategoryOpaque                   // binary, documents, arrays: no literal defaults
)

// SQLTypeMap holds backend-specific SQL type strings. An empty entry means the
// kind cannot be expressed on that backend.
type SQLTypeMap struct {
	Postgres string
	SQLite   string
	MySQL    string
}

// For returns the entry for the named dialect.
func (m SQLTypeMap) For(dialect string) string {
	switch dialect {
	case "postgres":
		return m.Postgres
	case "sqlite":
		return m.SQLite
	case "mysql":
		return m.MySQL
	}
	return ""
}

// TypeDef describes one column kind.
type TypeDef struct {
	Name     string
	Category Category

	// SQLTypes is used when the column carries no length or precision.
	SQLTypes SQLTypeMap
	// SizedSQLTypes holds printf patterns used when a bound is set: one %d for
	// length-bearing kinds, two for precision and scale.
	SizedSQLTypes SQLTypeMap

	HasLength    bool // accepts a length bound
	HasPrecision bool // accepts precision and scale
	PrimaryKey   bool // always rendered as the primary key
	NoDefault    bool // the kind never carries a default
	NoUnique     bool // the kind never carries a unique constraint
	ArrayElem    bool // may be used as an array element
}

// -----------------------------------------------------------------------------
// Type Registry
// -----------------------------------------------------------------------------

var registry = make(map[string]*TypeDef)

// Register adds a kind to the registry.
// Panics if a kind with the same name is already registered.
func Register(t *TypeDef) {
	if _, exists := registry[t.Name]; exists {
		panic("kind already registered: " + t.Name)
	}
	registry[t.Name] = t
}

// Get returns the definition for the given kind, or nil.
func Get(name string) *TypeDef {
	return registry[name]
}

// Exists reports whether name is a registered kind.
func Exists(name string) bool {
	return registry[name] != nil
}

// Names returns all kind names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize converts the spellings a caller may use ("BigInteger",
// "big-integer", "timestampTz") to the canonical snake_case kind name.
func Normalize(name string) string {
	return strutil.ToSnakeCase(name)
}

// Lookup resolves a possibly non-canonical kind name.
func Lookup(name string) (*TypeDef, error) {
	canonical := Normalize(name)
	if t := Get(canonical); t != nil {
		return t, nil
	}
	err := alerr.New(alerr.ErrInvalidType, "unknown column kind").
		With("kind", name)
	if hint := alerr.DidYouMean(canonical, Names()); hint != "" {
		err.WithHelp(hint)
	}
	return nil, err
}

// -----------------------------------------------------------------------------
// Built-in Kinds
// -----------------------------------------------------------------------------

func init() {
	// Primary keys
	Register(&TypeDef{
		Name:       PkAuto,
		Category:   CategoryInteger,
		SQLTypes:   SQLTypeMap{Postgres: "SERIAL", SQLite: "INTEGER", MySQL: "INT"},
		PrimaryKey: true,
		NoDefault:  true,
		NoUnique:   true,
	})
	Register(&TypeDef{
		Name:       PkUUID,
		Category:   CategoryUUID,
		SQLTypes:   SQLTypeMap{Postgres: "UUID", SQLite: "TEXT", MySQL: "CHAR(36)"},
		PrimaryKey: true,
		NoDefault:  true,
		NoUnique:   true,
	})

	// Text
	Register(&TypeDef{
		Name:          Char,
		Category:      CategoryText,
		SQLTypes:      SQLTypeMap{Postgres: "CHAR", SQLite: "CHAR", MySQL: "CHAR"},
		SizedSQLTypes: SQLTypeMap{Postgres: "CHAR(%d)", SQLite: "CHAR(%d)", MySQL: "CHAR(%d)"},
		HasLength:     true,
	})
	Register(&TypeDef{
		Name:     String,
		Category: CategoryText,
		// MySQL refuses VARCHAR without a bound.
		SQLTypes:      SQLTypeMap{Postgres: "VARCHAR", SQLite: "VARCHAR", MySQL: "VARCHAR(255)"},
		SizedSQLTypes: SQLTypeMap{Postgres: "VARCHAR(%d)", SQLite: "VARCHAR(%d)", MySQL: "VARCHAR(%d)"},
		HasLength:     true,
		ArrayElem:     true,
	})
	Register(&TypeDef{
		Name:     Text,
		Category: CategoryText,
		SQLTypes: SQLTypeMap{Postgres: "TEXT", SQLite: "TEXT", MySQL: "TEXT"},
	})

	// Integers. Postgres and SQLite have no unsigned types.
	Register(&TypeDef{
		Name:     SmallInteger,
		Category: CategoryInteger,
		SQLTypes: SQLTypeMap{Postgres: "SMALLINT", SQLite: "SMALLINT", MySQL: "SMALLINT"},
	})
	Register(&TypeDef{
		Name:      Integer,
		Category:  CategoryInteger,
		SQLTypes:  SQLTypeMap{Postgres: "INTEGER", SQLite: "INTEGER", MySQL: "INT"},
		ArrayElem: true,
	})
	Register(&TypeDef{
		Name:      BigInteger,
		Category:  CategoryInteger,
		SQLTypes:  SQLTypeMap{Postgres: "BIGINT", SQLite: "BIGINT", MySQL: "BIGINT"},
		ArrayElem: true,
	})
	Register(&TypeDef{
		Name:     SmallUnsigned,
		Category: CategoryInteger,
		SQLTypes: SQLTypeMap{Postgres: "SMALLINT", SQLite: "SMALLINT", MySQL: "SMALLINT UNSIGNED"},
	})
	Register(&TypeDef{
		Name:     Unsigned,
		Category: CategoryInteger,
		SQLTypes: SQLTypeMap{Postgres: "INTEGER", SQLite: "INTEGER", MySQL: "INT UNSIGNED"},
	})
	Register(&TypeDef{
		Name:     BigUnsigned,
		Category: CategoryInteger,
		SQLTypes: SQLTypeMap{Postgres: "BIGINT", SQLite: "BIGINT", MySQL: "BIGINT UNSIGNED"},
	})

	// Fixed and floating point
	Register(&TypeDef{
		Name:          Decimal,
		Category:      CategoryExact,
		SQLTypes:      SQLTypeMap{Postgres: "DECIMAL", SQLite: "DECIMAL", MySQL: "DECIMAL"},
		SizedSQLTypes: SQLTypeMap{Postgres: "DECIMAL(%d, %d)", SQLite: "DECIMAL(%d, %d)", MySQL: "DECIMAL(%d, %d)"},
		HasPrecision:  true,
	})
	Register(&TypeDef{
		Name:      Float,
		Category:  CategoryFloat,
		SQLTypes:  SQLTypeMap{Postgres: "REAL", SQLite: "REAL", MySQL: "FLOAT"},
		ArrayElem: true,
	})
	Register(&TypeDef{
		Name:      Double,
		Category:  CategoryFloat,
		SQLTypes:  SQLTypeMap{Postgres: "DOUBLE PRECISION", SQLite: "DOUBLE", MySQL: "DOUBLE"},
		ArrayElem: true,
	})
	Register(&TypeDef{
		Name:     Money,
		Category: CategoryExact,
		SQLTypes: SQLTypeMap{Postgres: "MONEY", SQLite: "DECIMAL(19, 4)", MySQL: "DECIMAL(19, 4)"},
	})

	// Boolean
	Register(&TypeDef{
		Name:      Boolean,
		Category:  CategoryBoolean,
		SQLTypes:  SQLTypeMap{Postgres: "BOOLEAN", SQLite: "INTEGER", MySQL: "BOOL"},
		NoUnique:  true,
		ArrayElem: true,
	})

	// Date and time. SQLite stores ISO 8601 text.
	Register(&TypeDef{
		Name:     Date,
		Category: CategoryTemporal,
		SQLTypes: SQLTypeMap{Postgres: "DATE", SQLite: "TEXT", MySQL: "DATE"},
	})
	Register(&TypeDef{
		Name:     Time,
		Category: CategoryTemporal,
		SQLTypes: SQLTypeMap{Postgres: "TIME", SQLite: "TEXT", MySQL: "TIME"},
	})
	Register(&TypeDef{
		Name:     DateTime,
		Category: CategoryTemporal,
		SQLTypes: SQLTypeMap{Postgres: "TIMESTAMP", SQLite: "TEXT", MySQL: "DATETIME"},
	})
	Register(&TypeDef{
		Name:     TimestampTz,
		Category: CategoryTemporal,
		SQLTypes: SQLTypeMap{Postgres: "TIMESTAMPTZ", SQLite: "TEXT", MySQL: "TIMESTAMP"},
	})
	Register(&TypeDef{
		Name:      Interval,
		Category:  CategoryOpaque,
		SQLTypes:  SQLTypeMap{Postgres: "INTERVAL", SQLite: "TEXT"},
		NoDefault: true,
	})

	// Binary
	Register(&TypeDef{
		Name:          Binary,
		Category:      CategoryOpaque,
		SQLTypes:      SQLTypeMap{Postgres: "BYTEA", SQLite: "BLOB", MySQL: "BLOB"},
		SizedSQLTypes: SQLTypeMap{Postgres: "BYTEA", SQLite: "BLOB", MySQL: "BINARY(%d)"},
		HasLength:     true,
		NoDefault:     true,
	})
	Register(&TypeDef{
		Name:          VarBinary,
		Category:      CategoryOpaque,
		SQLTypes:      SQLTypeMap{Postgres: "BYTEA", SQLite: "BLOB", MySQL: "VARBINARY(255)"},
		SizedSQLTypes: SQLTypeMap{Postgres: "BYTEA", SQLite: "BLOB", MySQL: "VARBINARY(%d)"},
		HasLength:     true,
		NoDefault:     true,
	})
	Register(&TypeDef{
		Name:      Blob,
		Category:  CategoryOpaque,
		SQLTypes:  SQLTypeMap{Postgres: "BYTEA", SQLite: "BLOB", MySQL: "BLOB"},
		NoDefault: true,
	})
	Register(&TypeDef{
		Name:          VarBit,
		Category:      CategoryOpaque,
		SQLTypes:      SQLTypeMap{Postgres: "VARBIT", SQLite: "BLOB", MySQL: "BIT"},
		SizedSQLTypes: SQLTypeMap{Postgres: "VARBIT(%d)", SQLite: "BLOB", MySQL: "BIT(%d)"},
		HasLength:     true,
		NoDefault:     true,
	})

	// Documents
	Register(&TypeDef{
		Name:      JSON,
		Category:  CategoryOpaque,
		SQLTypes:  SQLTypeMap{Postgres: "JSON", SQLite: "TEXT", MySQL: "JSON"},
		NoDefault: true,
	})
	Register(&TypeDef{
		Name:      JSONBinary,
		Category:  CategoryOpaque,
		SQLTypes:  SQLTypeMap{Postgres: "JSONB", SQLite: "TEXT", MySQL: "JSON"},
		NoDefault: true,
	})

	// Identifiers
	Register(&TypeDef{
		Name:     UUID,
		Category: CategoryUUID,
		SQLTypes: SQLTypeMap{Postgres: "UUID", SQLite: "TEXT", MySQL: "CHAR(36)"},
	})

	// Composite kinds are rendered by the dialect: arrays from their element
	// type, enums from their named type or value list.
	Register(&TypeDef{
		Name:      Array,
		Category:  CategoryOpaque,
		NoDefault: true,
	})
	Register(&TypeDef{
		Name:     Enum,
		Category: CategoryText,
	})
}

// IntervalFields lists the field restrictions Postgres accepts on INTERVAL.
var IntervalFields = []string{
	"YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND",
	"YEAR TO MONTH", "DAY TO HOUR", "DAY TO MINUTE", "DAY TO SECOND",
	"HOUR TO MINUTE", "HOUR TO SECOND", "MINUTE TO SECOND",
}

// ValidIntervalFields reports whether f is an accepted field restriction.
func ValidIntervalFields(f string) bool {
	for _, v := range IntervalFields {
		if v == f {
			return true
		}
	}
	return false
}
