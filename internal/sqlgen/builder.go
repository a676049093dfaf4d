// Package sqlgen provides dialect-aware SQL building helpers used by the
// dialect renderers and the catalog queries.
package sqlgen

import (
	"strconv"
	"strings"
)

// Dialect represents a supported SQL database dialect.
type Dialect int

const (
	// Postgres represents PostgreSQL dialect.
	Postgres Dialect = iota
	// SQLite represents SQLite dialect.
	SQLite
	// MySQL represents MySQL dialect.
	MySQL
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	case MySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

// Builder provides fluent SQL construction with dialect awareness.
type Builder struct {
	dialect Dialect
	buf     strings.Builder
}

// New creates a new Builder for the specified dialect.
func New(dialect Dialect) *Builder {
	return &Builder{dialect: dialect}
}

// Dialect returns the dialect of this builder.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// ----------------------------------------------------------------------------
// DDL Helpers
// ----------------------------------------------------------------------------

// CreateTable appends "CREATE TABLE [IF NOT EXISTS] <name>".
func (b *Builder) CreateTable(name string, ifNotExists bool) *Builder {
	b.buf.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.buf.WriteString("IF NOT EXISTS ")
	}
	return b.Ident(name)
}

// DropTable appends "DROP TABLE [IF EXISTS] <name>".
func (b *Builder) DropTable(name string, ifExists bool) *Builder {
	b.buf.WriteString("DROP TABLE ")
	if ifExists {
		b.buf.WriteString("IF EXISTS ")
	}
	return b.Ident(name)
}

// AlterTable appends "ALTER TABLE <name>".
func (b *Builder) AlterTable(name string) *Builder {
	b.buf.WriteString("ALTER TABLE ")
	return b.Ident(name)
}

// Column appends "<name> <typ>" for use inside CREATE TABLE or ADD COLUMN.
func (b *Builder) Column(name, typ string) *Builder {
	b.Ident(name)
	b.buf.WriteByte(' ')
	b.buf.WriteString(typ)
	return b
}

// AddColumn appends " ADD COLUMN <name> <typ>".
func (b *Builder) AddColumn(name, typ string) *Builder {
	b.buf.WriteString(" ADD COLUMN ")
	return b.Column(name, typ)
}

// DropColumn appends " DROP COLUMN <name>".
func (b *Builder) DropColumn(name string) *Builder {
	b.buf.WriteString(" DROP COLUMN ")
	return b.Ident(name)
}

// RenameColumn appends " RENAME COLUMN <old> TO <new>".
func (b *Builder) RenameColumn(old, new string) *Builder {
	b.buf.WriteString(" RENAME COLUMN ")
	b.Ident(old)
	b.buf.WriteString(" TO ")
	return b.Ident(new)
}

// RenameTo appends " RENAME TO <name>".
func (b *Builder) RenameTo(name string) *Builder {
	b.buf.WriteString(" RENAME TO ")
	return b.Ident(name)
}

// ----------------------------------------------------------------------------
// Column Modifiers
// ----------------------------------------------------------------------------

// NotNull appends " NOT NULL".
func (b *Builder) NotNull() *Builder {
	b.buf.WriteString(" NOT NULL")
	return b
}

// Null appends " NULL".
func (b *Builder) Null() *Builder {
	b.buf.WriteString(" NULL")
	return b
}

// Default appends " DEFAULT <expr>". The expression is written as-is.
func (b *Builder) Default(expr string) *Builder {
	b.buf.WriteString(" DEFAULT ")
	b.buf.WriteString(expr)
	return b
}

// PrimaryKey appends " PRIMARY KEY".
func (b *Builder) PrimaryKey() *Builder {
	b.buf.WriteString(" PRIMARY KEY")
	return b
}

// Unique appends " UNIQUE".
func (b *Builder) Unique() *Builder {
	b.buf.WriteString(" UNIQUE")
	return b
}

// Keyword appends " <kw>", or nothing when kw is empty.
func (b *Builder) Keyword(kw string) *Builder {
	if kw != "" {
		b.buf.WriteByte(' ')
		b.buf.WriteString(kw)
	}
	return b
}

// References appends " REFERENCES <table> (<cols>)".
func (b *Builder) References(table string, cols ...string) *Builder {
	b.buf.WriteString(" REFERENCES ")
	b.Ident(table)
	b.buf.WriteString(" (")
	b.Idents(cols...)
	b.buf.WriteByte(')')
	return b
}

// OnDelete appends " ON DELETE <action>" when action is set.
func (b *Builder) OnDelete(action string) *Builder {
	if action != "" {
		b.buf.WriteString(" ON DELETE ")
		b.buf.WriteString(action)
	}
	return b
}

// OnUpdate appends " ON UPDATE <action>" when action is set.
func (b *Builder) OnUpdate(action string) *Builder {
	if action != "" {
		b.buf.WriteString(" ON UPDATE ")
		b.buf.WriteString(action)
	}
	return b
}

// ----------------------------------------------------------------------------
// Constraints
// ----------------------------------------------------------------------------

// Constraint appends "CONSTRAINT <name>".
func (b *Builder) Constraint(name string) *Builder {
	b.buf.WriteString("CONSTRAINT ")
	return b.Ident(name)
}

// ForeignKey appends " FOREIGN KEY (<cols>)".
func (b *Builder) ForeignKey(cols ...string) *Builder {
	b.buf.WriteString(" FOREIGN KEY (")
	b.Idents(cols...)
	b.buf.WriteByte(')')
	return b
}

// Check appends " CHECK (<expr>)".
func (b *Builder) Check(expr string) *Builder {
	b.buf.WriteString(" CHECK (")
	b.buf.WriteString(expr)
	b.buf.WriteByte(')')
	return b
}

// ----------------------------------------------------------------------------
// Utilities
// ----------------------------------------------------------------------------

// Ident appends a quoted identifier.
func (b *Builder) Ident(name string) *Builder {
	b.buf.WriteString(QuoteIdent(b.dialect, name))
	return b
}

// Idents appends a comma-separated list of quoted identifiers.
func (b *Builder) Idents(names ...string) *Builder {
	b.buf.WriteString(Columns(b.dialect, names...))
	return b
}

// Raw appends raw SQL to the buffer without any modification.
func (b *Builder) Raw(sql string) *Builder {
	b.buf.WriteString(sql)
	return b
}

// Comma appends ", ".
func (b *Builder) Comma() *Builder {
	b.buf.WriteString(", ")
	return b
}

// OpenParen appends " (".
func (b *Builder) OpenParen() *Builder {
	b.buf.WriteString(" (")
	return b
}

// CloseParen appends ")".
func (b *Builder) CloseParen() *Builder {
	b.buf.WriteByte(')')
	return b
}

// Space appends a space character.
func (b *Builder) Space() *Builder {
	b.buf.WriteByte(' ')
	return b
}

// String returns the accumulated SQL string.
func (b *Builder) String() string {
	return b.buf.String()
}

// Reset clears the buffer so the builder can be reused.
func (b *Builder) Reset() *Builder {
	b.buf.Reset()
	return b
}

// ----------------------------------------------------------------------------
// Standalone Helpers
// ----------------------------------------------------------------------------

// QuoteIdent returns the identifier quoted according to the dialect.
// PostgreSQL and SQLite use double quotes, MySQL uses backticks.
// Embedded quote characters are escaped by doubling them.
func QuoteIdent(dialect Dialect, s string) string {
	if dialect == MySQL {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteString returns s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteStrings returns a comma-separated list of string literals.
func QuoteStrings(values ...string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = QuoteString(v)
	}
	return strings.Join(parts, ", ")
}

// Columns returns a comma-separated list of quoted column names.
// Example: Columns(Postgres, "a", "b") -> `"a", "b"`
func Columns(dialect Dialect, cols ...string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = QuoteIdent(dialect, col)
	}
	return strings.Join(parts, ", ")
}

// Placeholder returns the n-th (1-based) bind placeholder.
// PostgreSQL uses $n, SQLite and MySQL use ?.
func Placeholder(dialect Dialect, n int) string {
	if dialect == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns a comma-separated list of placeholders for the given count.
func Placeholders(dialect Dialect, n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Placeholder(dialect, i+1)
	}
	return strings.Join(parts, ", ")
}

// List returns a comma-separated list of items without quoting.
func List(items ...string) string {
	return strings.Join(items, ", ")
}
