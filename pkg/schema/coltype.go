package schema

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/types"
)

// ColType describes a column independently of its name: a kind plus
// orthogonal modifiers. Build one with a named constructor and refine it with
// Null, Uniq and WithDefault. ColType is a value; modifiers return copies.
//
//	schema.StringLen(120).Uniq()
//	schema.Integer().WithDefault(0)
//	schema.Enum("mood", "happy", "sad").Null()
type ColType struct {
	Kind string

	Nullable bool
	Unique   bool

	Default    any
	HasDefault bool

	Length    int
	Precision int
	Scale     int

	IntervalFields string
	Elem           ArrayKind
	Enum           *EnumDescriptor

	bounded bool // built by a *Len constructor, so a zero bound is an error
}

// ArrayKind is the element kind of an array column.
type ArrayKind string

// Array element kinds.
const (
	ArrayString ArrayKind = types.String
	ArrayInt    ArrayKind = types.Integer
	ArrayBigInt ArrayKind = types.BigInteger
	ArrayFloat  ArrayKind = types.Float
	ArrayDouble ArrayKind = types.Double
	ArrayBool   ArrayKind = types.Boolean
)

func kind(name string) ColType { return ColType{Kind: name} }

func sized(name string, length int) ColType {
	return ColType{Kind: name, Length: length, bounded: true}
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// PkAuto is an auto-incrementing integer primary key.
func PkAuto() ColType { return kind(types.PkAuto) }

// PkUuid is a UUID primary key.
func PkUuid() ColType { return kind(types.PkUUID) }

func Char() ColType { return kind(types.Char) }
func CharLen(n int) ColType { return sized(types.Char, n) }
func String() ColType { return kind(types.String) }
func StringLen(n int) ColType { return sized(types.String, n) }
func Text() ColType { return kind(types.Text) }
func SmallInteger() ColType { return kind(types.SmallInteger) }
func Integer() ColType { return kind(types.Integer) }
func BigInteger() ColType { return kind(types.BigInteger) }
func SmallUnsigned() ColType { return kind(types.SmallUnsigned) }
func Unsigned() ColType { return kind(types.Unsigned) }
func BigUnsigned() ColType { return kind(types.BigUnsigned) }
func Decimal() ColType { return kind(types.Decimal) }
func Float() ColType { return kind(types.Float) }
func Double() ColType { return kind(types.Double) }
func Boolean() ColType { return kind(types.Boolean) }
func Date() ColType { return kind(types.Date) }
func DateTime() ColType { return kind(types.DateTime) }
func Time() ColType { return kind(types.Time) }
func TimestampTz() ColType { return kind(types.TimestampTz) }
func Binary() ColType { return kind(types.Binary) }
func BinaryLen(n int) ColType { return sized(types.Binary, n) }
func VarBinary(n int) ColType { return sized(types.VarBinary, n) }
func Blob() ColType { return kind(types.Blob) }
func JSON() ColType { return kind(types.JSON) }
func JSONBinary() ColType { return kind(types.JSONBinary) }
func Money() ColType { return kind(types.Money) }
func UUID() ColType { return kind(types.UUID) }
func VarBitLen(n int) ColType { return sized(types.VarBit, n) }

// Array is an array of a scalar element kind. Postgres only.
func Array(elem ArrayKind) ColType {
	return ColType{Kind: types.Array, Elem: elem}
}

// DecimalLen is a decimal with the given precision and scale.
func DecimalLen(precision, scale int) ColType {
	return ColType{Kind: types.Decimal, Precision: precision, Scale: scale, bounded: true}
}

// Interval is a Postgres interval. fields restricts it ("DAY TO SECOND") and
// precision bounds fractional seconds; pass "" and 0 for neither.
func Interval(fields string, precision int) ColType {
	return ColType{
		Kind:           types.Interval,
		IntervalFields: strings.ToUpper(strings.TrimSpace(fields)),
		Precision:      precision,
	}
}

// Enum is a column bound to the named enumerated type. The values drive the
// SQLite CHECK constraint and the MySQL inline ENUM.
func Enum(name string, values ...string) ColType {
	return ColType{Kind: types.Enum, Enum: &EnumDescriptor{Name: name, Values: values}}
}

// -----------------------------------------------------------------------------
// Modifiers
// -----------------------------------------------------------------------------

// Null makes the column nullable. It clears Uniq.
func (t ColType) Null() ColType {
	t.Nullable = true
	t.Unique = false
	return t
}

// Uniq adds a unique constraint. It clears Null.
func (t ColType) Uniq() ColType {
	t.Unique = true
	t.Nullable = false
	return t
}

// WithDefault sets the default, replacing any earlier one. Pass an *SQLExpr
// for a server-side expression.
func (t ColType) WithDefault(v any) ColType {
	t.Default = v
	t.HasDefault = true
	return t
}

// -----------------------------------------------------------------------------
// Definition
// -----------------------------------------------------------------------------

// BuildColumn returns the column definition t describes.
func BuildColumn(t ColType, name string) *ColumnDef {
	return t.ToDef(name)
}

// ToDef returns the column definition for a column called name. It never
// fails; Validate reports combinations the database would reject. Kind names
// are accepted in any spelling types.Normalize understands ("PkAuto").
func (t ColType) ToDef(name string) *ColumnDef {
	t.Kind = types.Normalize(t.Kind)
	def := &ColumnDef{
		Name:           name,
		Type:           t.Kind,
		Length:         t.Length,
		Precision:      t.Precision,
		Scale:          t.Scale,
		IntervalFields: t.IntervalFields,
		Elem:           string(t.Elem),
		Nullable:       t.Nullable,
		Unique:         t.Unique,
	}

	switch t.Kind {
	case types.PkAuto:
		def.PrimaryKey = true
		def.AutoIncrement = true
	case types.PkUUID:
		def.PrimaryKey = true
	}

	if t.Enum != nil {
		def.EnumName = t.Enum.Name
		def.Values = append([]string(nil), t.Enum.Values...)
	}

	if t.HasDefault {
		def.Default = normalizeDefault(t.Kind, t.Default)
		def.DefaultSet = true
	}
	return def
}

// Validate reports modifier combinations the kind does not support.
func (t ColType) Validate() error {
	t.Kind = types.Normalize(t.Kind)
	if t.bounded {
		if t.Kind == types.Decimal && t.Precision <= 0 {
			return alerr.New(alerr.ErrInvalidModifier, "decimal precision must be positive").
				With("kind", t.Kind)
		}
		if t.Kind != types.Decimal && t.Length <= 0 {
			return alerr.New(alerr.ErrInvalidModifier, "length must be positive").
				With("kind", t.Kind)
		}
	}
	return t.ToDef(t.Kind).Validate()
}

// Date and time literals by kind.
const (
	dateLayout        = "2006-01-02"
	timeLayout        = "15:04:05"
	dateTimeLayout    = "2006-01-02 15:04:05"
	timestampTzLayout = "2006-01-02 15:04:05Z07:00"
)

// normalizeDefault converts v to the representation the column kind encodes.
// Values it does not recognise pass through for Validate to reject.
func normalizeDefault(k string, v any) any {
	switch d := v.(type) {
	case nil:
		return nil
	case *SQLExpr:
		return d
	case SQLExpr:
		return &d
	}

	switch k {
	case types.Char, types.String, types.Text, types.Enum:
		if r, ok := v.(rune); ok {
			return string(r)
		}
	case types.Decimal, types.Money:
		return toDecimal(v)
	case types.Date, types.Time, types.DateTime, types.TimestampTz:
		if tm, ok := v.(time.Time); ok {
			return formatTime(k, tm)
		}
	case types.UUID:
		// generated server side, e.g. gen_random_uuid()
		if s, ok := v.(string); ok {
			return ast.Expr(s)
		}
	}
	return v
}

func toDecimal(v any) any {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	return v
}

func formatTime(k string, tm time.Time) string {
	switch k {
	case types.Date:
		return tm.Format(dateLayout)
	case types.Time:
		return tm.Format(timeLayout)
	case types.DateTime:
		return tm.Format(dateTimeLayout)
	default:
		return tm.Format(timestampTzLayout)
	}
}
