package ast

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/types"
)

// Validation messages shared by the definitions and the operations in operation.go.
const (
	msgTableNameRequired  = "table name is required"
	msgColumnNameRequired = "column name is required"
	msgTableNeedsColumn   = "table must have at least one column"
	msgIndexNeedsColumn   = "index must have at least one column"
	msgFKNeedsColumn      = "foreign key must have at least one column"
	msgFKNeedsRefTable    = "foreign key must reference a table"
	msgFKColumnCountMatch = "foreign key column count must match referenced column count"
)

// maxIdentifierLength is the portable identifier limit, applied on every
// backend. Postgres truncates past 63 bytes, MySQL allows 64 and SQLite has
// no limit, so a name that passes here means the same thing everywhere.
const maxIdentifierLength = 63

// ValidateIdentifier checks that a name can be used as a quoted identifier.
// Identifiers are always quoted when rendered, so any printable name is accepted.
func ValidateIdentifier(name string) error {
	if name == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, "identifier is empty")
	}
	if len(name) > maxIdentifierLength {
		return alerr.New(alerr.ErrInvalidIdentifier,
			fmt.Sprintf("identifier %q is longer than %d bytes", name, maxIdentifierLength))
	}
	if strings.ContainsRune(name, 0) {
		return alerr.New(alerr.ErrInvalidIdentifier,
			fmt.Sprintf("identifier %q contains a NUL byte", name))
	}
	return nil
}

// ValidFKActions is the set of valid ON DELETE / ON UPDATE actions.
var ValidFKActions = map[string]bool{
	"":            true,
	"CASCADE":     true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"RESTRICT":    true,
	"NO ACTION":   true,
}

// NormalizeFKAction uppercases and validates a referential action.
func NormalizeFKAction(action string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(action))
	if !ValidFKActions[upper] {
		return "", alerr.New(alerr.ErrSchemaInvalid,
			fmt.Sprintf("invalid foreign key action %q; must be one of: CASCADE, SET NULL, SET DEFAULT, RESTRICT, NO ACTION", action))
	}
	return upper, nil
}

// dangerousSQLPattern matches statement separators, comments and DDL/DML keywords.
var dangerousSQLPattern = regexp.MustCompile(
	`(?i)(;\s*|--|\b(DROP|ALTER|CREATE|GRANT|REVOKE|TRUNCATE|INSERT|UPDATE|DELETE|EXEC|EXECUTE|UNION|INTO|COPY|pg_read_file|lo_import|pg_sleep)\b)`,
)

// sqlStringLiteral matches a single-quoted literal, including '' escapes.
var sqlStringLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)

// ValidateSQLExpression checks a raw expression used in a CHECK or DEFAULT
// clause. Keywords inside string literals, as in kind IN ('insert'), are
// data and do not count.
func ValidateSQLExpression(expr string) error {
	if dangerousSQLPattern.MatchString(sqlStringLiteral.ReplaceAllString(expr, "''")) {
		return alerr.New(alerr.ErrSchemaInvalid,
			"SQL expression contains potentially dangerous pattern").
			With("expression", expr).
			WithHelp("expressions must not contain ';', '--', or DDL/DML keywords")
	}
	return nil
}

// -----------------------------------------------------------------------------
// SQLExpr - marks raw SQL expressions
// -----------------------------------------------------------------------------

// SQLExpr marks a default as a server-side SQL expression rather than a literal.
//
// Examples:
//   - CURRENT_TIMESTAMP
//   - gen_random_uuid()
type SQLExpr struct {
	Expr string
}

// Expr wraps a raw SQL expression.
func Expr(expr string) *SQLExpr {
	return &SQLExpr{Expr: expr}
}

// CurrentTimestamp is the portable "now" default.
const CurrentTimestamp = "CURRENT_TIMESTAMP"

// -----------------------------------------------------------------------------
// ColumnDef - complete column definition
// -----------------------------------------------------------------------------

// ColumnDef is the fully specified definition of one column. Every field is
// orthogonal: the kind names the base type; the bounds, nullability, uniqueness
// and default are independent modifiers.
type ColumnDef struct {
	Name string
	Type string // kind name from internal/types

	Length    int // char/string/binary/var_bit length, 0 when unbounded
	Precision int // decimal precision, or interval fractional-second precision
	Scale     int // decimal scale

	IntervalFields string   // interval field restriction ("DAY TO SECOND")
	Elem           string   // array element kind
	EnumName       string   // native enumerated type name
	Values         []string // allowed enumeration values

	Nullable      bool
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool

	Default    any // Go literal or *SQLExpr
	DefaultSet bool
}

// HasDefault reports whether a default was declared.
func (c *ColumnDef) HasDefault() bool {
	return c.DefaultSet && c.Default != nil
}

// Validate checks that the column only combines modifiers its kind supports.
func (c *ColumnDef) Validate() error {
	if c.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgColumnNameRequired)
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	def, err := types.Lookup(c.Type)
	if err != nil {
		return err.(*alerr.Error).WithColumn(c.Name)
	}

	invalid := func(msg string) *alerr.Error {
		return alerr.New(alerr.ErrInvalidModifier, msg).
			WithColumn(c.Name).
			With("kind", def.Name)
	}

	if c.Length < 0 || c.Precision < 0 || c.Scale < 0 {
		return invalid("bounds must not be negative")
	}
	if c.Length > 0 && !def.HasLength {
		return invalid("kind does not accept a length")
	}
	if def.HasPrecision && c.Scale > c.Precision {
		return invalid("decimal scale exceeds precision").
			With("precision", c.Precision).
			With("scale", c.Scale)
	}
	if c.Scale > 0 && !def.HasPrecision {
		return invalid("kind does not accept a scale")
	}
	if c.Precision > 0 && !def.HasPrecision && def.Name != types.Interval {
		return invalid("kind does not accept a precision")
	}

	if def.PrimaryKey && (c.Nullable || c.Unique || c.DefaultSet) {
		return invalid("primary key kinds take no modifiers")
	}
	if c.Nullable && c.PrimaryKey {
		return invalid("primary key cannot be nullable")
	}
	if c.Unique && def.NoUnique {
		return invalid("kind cannot be unique")
	}
	if c.DefaultSet && def.NoDefault {
		return invalid("kind cannot carry a default")
	}

	switch def.Name {
	case types.Interval:
		if c.IntervalFields != "" && !types.ValidIntervalFields(c.IntervalFields) {
			return invalid("invalid interval fields").
				With("fields", c.IntervalFields)
		}
	case types.Array:
		elem := types.Get(c.Elem)
		if elem == nil || !elem.ArrayElem {
			return invalid("array element must be string, integer, big_integer, float, double or boolean").
				With("elem", c.Elem)
		}
	case types.Enum:
		if c.EnumName == "" {
			return invalid("enum column requires a type name")
		}
		if err := ValidateIdentifier(c.EnumName); err != nil {
			return err
		}
	}

	if c.HasDefault() {
		return c.validateDefault(def)
	}
	return nil
}

func (c *ColumnDef) validateDefault(def *types.TypeDef) error {
	if expr, ok := c.Default.(*SQLExpr); ok {
		return ValidateSQLExpression(expr.Expr)
	}

	ok := false
	switch def.Category {
	case types.CategoryText, types.CategoryTemporal:
		_, ok = c.Default.(string)
	case types.CategoryInteger:
		ok = isInteger(c.Default)
	case types.CategoryFloat:
		ok = isInteger(c.Default) || isFloat(c.Default)
	case types.CategoryExact:
		_, isDec := c.Default.(decimal.Decimal)
		ok = isDec || isInteger(c.Default) || isFloat(c.Default)
	case types.CategoryBoolean:
		_, ok = c.Default.(bool)
	case types.CategoryUUID:
		_, ok = c.Default.(string)
	}
	if !ok {
		return alerr.New(alerr.ErrTypeMismatchVal, "default value does not fit the column kind").
			WithColumn(c.Name).
			With("kind", def.Name).
			With("value", fmt.Sprintf("%v (%T)", c.Default, c.Default))
	}

	if def.Name == types.Enum && len(c.Values) > 0 {
		if s := c.Default.(string); !slices.Contains(c.Values, s) {
			return alerr.New(alerr.ErrTypeMismatchVal, "default is not one of the enum values").
				WithColumn(c.Name).
				With("default", s).
				With("values", strings.Join(c.Values, ", "))
		}
	}
	return nil
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// IndexDef - index declared alongside a table
// -----------------------------------------------------------------------------

// IndexDef represents an index declared in a create-table statement.
type IndexDef struct {
	Name    string // generated when empty
	Columns []string
	Unique  bool
}

// Validate checks that the index definition is well-formed.
func (i *IndexDef) Validate() error {
	if len(i.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgIndexNeedsColumn)
	}
	for _, col := range i.Columns {
		if err := ValidateIdentifier(col); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// ForeignKeyDef - foreign key constraint definition
// -----------------------------------------------------------------------------

// ForeignKeyDef represents a foreign key constraint.
type ForeignKeyDef struct {
	Name       string // generated when empty
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

// Validate checks that the foreign key definition is well-formed.
func (fk *ForeignKeyDef) Validate() error {
	if len(fk.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgFKNeedsColumn)
	}
	if fk.RefTable == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgFKNeedsRefTable)
	}
	if err := ValidateIdentifier(fk.RefTable); err != nil {
		return err
	}
	for _, col := range slices.Concat(fk.Columns, fk.RefColumns) {
		if err := ValidateIdentifier(col); err != nil {
			return err
		}
	}
	if len(fk.Columns) != len(fk.RefColumns) {
		return alerr.New(alerr.ErrSchemaInvalid, msgFKColumnCountMatch).
			With("columns", len(fk.Columns)).
			With("ref_columns", len(fk.RefColumns))
	}
	for _, action := range []string{fk.OnDelete, fk.OnUpdate} {
		if _, err := NormalizeFKAction(action); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// CheckDef - CHECK constraint definition
// -----------------------------------------------------------------------------

// CheckDef represents a table-level CHECK constraint.
type CheckDef struct {
	Name       string
	Expression string
}

// Validate checks that the check constraint is well-formed.
func (c *CheckDef) Validate() error {
	if c.Name != "" {
		if err := ValidateIdentifier(c.Name); err != nil {
			return err
		}
	}
	if c.Expression == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "check constraint requires an expression")
	}
	return ValidateSQLExpression(c.Expression)
}
