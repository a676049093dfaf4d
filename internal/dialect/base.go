package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/sqlgen"
	"github.com/hlop3z/schemakit/internal/strutil"
	"github.com/hlop3z/schemakit/internal/types"
)

// base holds the rendering shared by every backend. Backends embed it, set the
// hooks that differ, and override the statements their server spells
// differently.
type base struct {
	name   string
	flavor sqlgen.Dialect

	trueLit, falseLit string
	transactionalDDL  bool
	nativeEnums       bool
	indexIfNotExists  bool

	// specialType renders kinds whose SQL depends on column fields beyond the
	// registry entry (arrays, enums, intervals, serials). ok=false falls
	// through to the registry mapping.
	specialType func(col *ast.ColumnDef) (sql string, ok bool, err error)

	// primaryKey writes the inline primary key clause, including any
	// auto-increment keyword the backend needs.
	primaryKey func(b *sqlgen.Builder, col *ast.ColumnDef)

	// literal wraps a rendered literal default for the given kind.
	literal func(kind, lit string) string

	// expr rewrites a raw default expression before it is emitted.
	expr func(expr string) string

	// enumCheck emits a CHECK constraint restricting enum columns to their
	// values, for backends without an enumerated type.
	enumCheck bool
}

func (d *base) Name() string { return d.name }

func (d *base) QuoteIdent(name string) string { return sqlgen.QuoteIdent(d.flavor, name) }

func (d *base) Placeholder(index int) string { return sqlgen.Placeholder(d.flavor, index) }

func (d *base) SupportsTransactionalDDL() bool { return d.transactionalDDL }

func (d *base) SupportsNativeEnums() bool { return d.nativeEnums }

func (d *base) builder() *sqlgen.Builder { return sqlgen.New(d.flavor) }

// -----------------------------------------------------------------------------
// Type mapping
// -----------------------------------------------------------------------------

// ColumnTypeSQL returns the SQL type for col on this backend.
func (d *base) ColumnTypeSQL(col *ast.ColumnDef) (string, error) {
	def, err := types.Lookup(col.Type)
	if err != nil {
		return "", err
	}
	if d.specialType != nil {
		sql, ok, err := d.specialType(col)
		if err != nil {
			return "", err
		}
		if ok {
			return sql, nil
		}
	}

	switch {
	case def.HasPrecision && col.Precision > 0:
		if pattern := def.SizedSQLTypes.For(d.name); strings.Count(pattern, "%d") == 2 {
			return fmt.Sprintf(pattern, col.Precision, col.Scale), nil
		}
	case def.HasLength && col.Length > 0:
		if pattern := def.SizedSQLTypes.For(d.name); strings.Count(pattern, "%d") == 1 {
			return fmt.Sprintf(pattern, col.Length), nil
		}
	}

	sql := def.SQLTypes.For(d.name)
	if sql == "" {
		return "", alerr.Unsupported(d.name, "column kind "+def.Name).
			WithColumn(col.Name)
	}
	return sql, nil
}

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

// bareExpressions are default expressions every backend accepts unparenthesized.
var bareExpressions = map[string]bool{
	"CURRENT_TIMESTAMP": true,
	"CURRENT_DATE":      true,
	"CURRENT_TIME":      true,
	"LOCALTIMESTAMP":    true,
	"NULL":              true,
	"TRUE":              true,
	"FALSE":             true,
}

// DefaultSQL renders the declared default of col as a SQL literal or expression.
func (d *base) DefaultSQL(col *ast.ColumnDef) (string, error) {
	if !col.HasDefault() {
		return "", alerr.New(alerr.EInternalError, "column has no default").
			WithColumn(col.Name)
	}
	kind := types.Normalize(col.Type)

	var lit string
	switch v := col.Default.(type) {
	case *ast.SQLExpr:
		return d.exprSQL(v.Expr), nil
	case ast.SQLExpr:
		return d.exprSQL(v.Expr), nil
	case bool:
		lit = d.falseLit
		if v {
			lit = d.trueLit
		}
		return lit, nil
	case string:
		lit = sqlgen.QuoteString(v)
	case decimal.Decimal:
		lit = v.String()
	case int:
		lit = strconv.FormatInt(int64(v), 10)
	case int8:
		lit = strconv.FormatInt(int64(v), 10)
	case int16:
		lit = strconv.FormatInt(int64(v), 10)
	case int32:
		lit = strconv.FormatInt(int64(v), 10)
	case int64:
		lit = strconv.FormatInt(v, 10)
	case uint:
		lit = strconv.FormatUint(uint64(v), 10)
	case uint8:
		lit = strconv.FormatUint(uint64(v), 10)
	case uint16:
		lit = strconv.FormatUint(uint64(v), 10)
	case uint32:
		lit = strconv.FormatUint(uint64(v), 10)
	case uint64:
		lit = strconv.FormatUint(v, 10)
	case float32:
		lit = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		lit = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "", alerr.New(alerr.ErrTypeMismatchVal, "unsupported default value").
			WithColumn(col.Name).
			With("value", fmt.Sprintf("%T", v))
	}

	// money is written as a string so every backend parses it exactly
	if kind == types.Money && !strings.HasPrefix(lit, "'") {
		lit = sqlgen.QuoteString(lit)
	}
	if d.literal != nil {
		lit = d.literal(kind, lit)
	}
	return lit, nil
}

func (d *base) exprSQL(expr string) string {
	expr = strings.TrimSpace(expr)
	if d.expr != nil {
		expr = d.expr(expr)
	}
	if bareExpressions[strings.ToUpper(expr)] {
		return expr
	}
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return expr
	}
	return "(" + expr + ")"
}

// -----------------------------------------------------------------------------
// Column definitions
// -----------------------------------------------------------------------------

// columnSQL renders the full definition of col as it appears in CREATE TABLE
// and ADD COLUMN.
func (d *base) columnSQL(table string, col *ast.ColumnDef) (string, error) {
	typ, err := d.ColumnTypeSQL(col)
	if err != nil {
		return "", err
	}

	b := d.builder().Column(col.Name, typ)
	switch {
	case col.PrimaryKey:
		d.primaryKey(b, col)
	case col.Nullable:
		b.Null()
	default:
		b.NotNull()
	}
	if col.Unique && !col.PrimaryKey {
		b.Unique()
	}
	if col.HasDefault() {
		def, err := d.DefaultSQL(col)
		if err != nil {
			return "", err
		}
		b.Default(def)
	}
	if d.enumCheck && types.Normalize(col.Type) == types.Enum && len(col.Values) > 0 {
		b.Space().
			Constraint(strutil.CheckName(table, col.Name)).
			Check(d.QuoteIdent(col.Name) + " IN (" + sqlgen.QuoteStrings(col.Values...) + ")")
	}
	return b.String(), nil
}

func (d *base) foreignKeySQL(b *sqlgen.Builder, table string, fk *ast.ForeignKeyDef) error {
	onDelete, err := ast.NormalizeFKAction(fk.OnDelete)
	if err != nil {
		return err
	}
	onUpdate, err := ast.NormalizeFKAction(fk.OnUpdate)
	if err != nil {
		return err
	}
	name := fk.Name
	if name == "" {
		name = strutil.ForeignKeyName(table, fk.Columns...)
	}
	b.Constraint(name).
		ForeignKey(fk.Columns...).
		References(fk.RefTable, fk.RefColumns...).
		OnDelete(onDelete).
		OnUpdate(onUpdate)
	return nil
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

// CreateTableSQL renders the CREATE TABLE statement followed by one CREATE
// INDEX statement per declared index.
func (d *base) CreateTableSQL(op *ast.CreateTable) ([]string, error) {
	b := d.builder().CreateTable(op.Name, op.IfNotExists).OpenParen()

	for i, col := range op.Columns {
		if i > 0 {
			b.Comma()
		}
		sql, err := d.columnSQL(op.Name, col)
		if err != nil {
			return nil, withTable(err, op.Name)
		}
		b.Raw(sql)
	}
	if len(op.PrimaryKey) > 0 {
		b.Comma().Raw("PRIMARY KEY (").Idents(op.PrimaryKey...).CloseParen()
	}
	for _, fk := range op.ForeignKeys {
		b.Comma()
		if err := d.foreignKeySQL(b, op.Name, fk); err != nil {
			return nil, withTable(err, op.Name)
		}
	}
	for _, chk := range op.Checks {
		b.Comma()
		if chk.Name == "" {
			b.Raw("CHECK (" + chk.Expression + ")")
			continue
		}
		b.Constraint(chk.Name).Check(chk.Expression)
	}
	b.CloseParen()

	stmts := []string{b.String()}
	for _, idx := range op.Indexes {
		sql, err := d.createIndex(&ast.CreateIndex{
			TableRef:    ast.TableRef{TableName: op.Name},
			Name:        idx.Name,
			Columns:     idx.Columns,
			Unique:      idx.Unique,
			IfNotExists: op.IfNotExists && d.indexIfNotExists,
		})
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, sql)
	}
	return stmts, nil
}

// DropTableSQL renders DROP TABLE. CASCADE is only emitted where the backend
// understands it.
func (d *base) DropTableSQL(op *ast.DropTable) (string, error) {
	b := d.builder().DropTable(op.Name, op.IfExists)
	if op.Cascade {
		if d.flavor == sqlgen.SQLite {
			return "", alerr.Unsupported(d.name, "DROP TABLE ... CASCADE").WithTable(op.Name)
		}
		b.Keyword("CASCADE")
	}
	return b.String(), nil
}

func (d *base) RenameTableSQL(op *ast.RenameTable) (string, error) {
	return d.builder().AlterTable(op.OldName).RenameTo(op.NewName).String(), nil
}

// -----------------------------------------------------------------------------
// Columns
// -----------------------------------------------------------------------------

func (d *base) AddColumnSQL(op *ast.AddColumn) (string, error) {
	col, err := d.columnSQL(op.TableName, op.Column)
	if err != nil {
		return "", withTable(err, op.TableName)
	}
	return d.builder().AlterTable(op.TableName).Raw(" ADD COLUMN ").Raw(col).String(), nil
}

func (d *base) DropColumnSQL(op *ast.DropColumn) (string, error) {
	return d.builder().AlterTable(op.TableName).DropColumn(op.Name).String(), nil
}

func (d *base) RenameColumnSQL(op *ast.RenameColumn) (string, error) {
	return d.builder().AlterTable(op.TableName).RenameColumn(op.OldName, op.NewName).String(), nil
}

// -----------------------------------------------------------------------------
// Indexes
// -----------------------------------------------------------------------------

func (d *base) CreateIndexSQL(op *ast.CreateIndex) (string, error) {
	return d.createIndex(op)
}

func (d *base) createIndex(op *ast.CreateIndex) (string, error) {
	if op.IfNotExists && !d.indexIfNotExists {
		return "", alerr.Unsupported(d.name, "CREATE INDEX IF NOT EXISTS").WithTable(op.TableName)
	}
	name := op.Name
	if name == "" {
		name = strutil.IndexName(op.TableName, op.Columns...)
	}

	b := d.builder().Raw("CREATE ")
	if op.Unique {
		b.Raw("UNIQUE ")
	}
	b.Raw("INDEX ")
	if op.IfNotExists {
		b.Raw("IF NOT EXISTS ")
	}
	b.Ident(name).Raw(" ON ").Ident(op.TableName).
		OpenParen().Idents(op.Columns...).CloseParen()
	return b.String(), nil
}

func (d *base) DropIndexSQL(op *ast.DropIndex) (string, error) {
	b := d.builder().Raw("DROP INDEX ")
	if op.IfExists {
		b.Raw("IF EXISTS ")
	}
	return b.Ident(op.Name).String(), nil
}

// -----------------------------------------------------------------------------
// Foreign keys
// -----------------------------------------------------------------------------

func (d *base) AddForeignKeySQL(op *ast.AddForeignKey) (string, error) {
	b := d.builder().AlterTable(op.TableName).Raw(" ADD ")
	if err := d.foreignKeySQL(b, op.TableName, &op.ForeignKeyDef); err != nil {
		return "", withTable(err, op.TableName)
	}
	return b.String(), nil
}

func (d *base) DropForeignKeySQL(op *ast.DropForeignKey) (string, error) {
	return d.builder().AlterTable(op.TableName).Raw(" DROP CONSTRAINT ").Ident(op.Name).String(), nil
}

// -----------------------------------------------------------------------------
// Enumerated types
// -----------------------------------------------------------------------------

func (d *base) CreateEnumTypeSQL(op *ast.CreateEnumType) (string, error) {
	return "", alerr.Unsupported(d.name, "CREATE TYPE").With("type", op.Name)
}

func (d *base) DropEnumTypeSQL(op *ast.DropEnumType) (string, error) {
	return "", alerr.Unsupported(d.name, "DROP TYPE").With("type", op.Name)
}

// -----------------------------------------------------------------------------
// Raw SQL
// -----------------------------------------------------------------------------

func (d *base) RawSQLFor(op *ast.RawSQL) (string, error) {
	sql := strings.TrimSpace(op.For(d.name))
	if sql == "" {
		return "", alerr.New(alerr.ErrSchemaInvalid, "raw SQL has no statement for this dialect").
			WithDialect(d.name)
	}
	return sql, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func withTable(err error, table string) error {
	if e, ok := err.(*alerr.Error); ok {
		return e.WithTable(table)
	}
	return err
}

func unknownOperation(op ast.Operation) error {
	return alerr.New(alerr.EInternalError, "unknown operation type").
		With("operation", fmt.Sprintf("%T", op))
}

// intervalSQL renders "INTERVAL [fields][(p)]".
func intervalSQL(col *ast.ColumnDef) string {
	var sb strings.Builder
	sb.WriteString("INTERVAL")
	if col.IntervalFields != "" {
		sb.WriteByte(' ')
		sb.WriteString(strings.ToUpper(col.IntervalFields))
	}
	if col.Precision > 0 {
		sb.WriteString("(" + strconv.Itoa(col.Precision) + ")")
	}
	return sb.String()
}
