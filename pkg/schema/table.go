package schema

import (
	"github.com/hlop3z/schemakit/internal/ast"
)

// Statement is anything the manager can render and execute.
type Statement interface {
	Operations() []Operation
}

// Audit column names.
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// -----------------------------------------------------------------------------
// Create table
// -----------------------------------------------------------------------------

// TableCreateStatement builds a CREATE TABLE statement.
type TableCreateStatement struct {
	op *ast.CreateTable
}

// Table starts a CREATE TABLE statement.
func Table(name string) *TableCreateStatement {
	return &TableCreateStatement{op: &ast.CreateTable{Name: name}}
}

// TableAutoTz starts a CREATE TABLE IF NOT EXISTS statement carrying the
// created_at and updated_at audit columns.
func TableAutoTz(name string) *TableCreateStatement {
	return TimestampsTz(Table(name).IfNotExists())
}

// TimestampsTz appends the created_at and updated_at audit columns: both
// non-null timestamp_tz columns defaulting to the current timestamp.
func TimestampsTz(t *TableCreateStatement) *TableCreateStatement {
	return t.
		Col(TimestampTzNow(CreatedAt)).
		Col(TimestampTzNow(UpdatedAt))
}

// TimestampTzNow is a non-null timestamp_tz column defaulting to the current
// timestamp.
func TimestampTzNow(name string) *ColumnDef {
	return TimestampTz().WithDefault(Expr(CurrentTimestamp)).ToDef(name)
}

// Name returns the table name.
func (t *TableCreateStatement) Name() string { return t.op.Name }

// IfNotExists makes the statement a no-op when the table exists.
func (t *TableCreateStatement) IfNotExists() *TableCreateStatement {
	t.op.IfNotExists = true
	return t
}

// Col appends a column definition.
func (t *TableCreateStatement) Col(def *ColumnDef) *TableCreateStatement {
	t.op.Columns = append(t.op.Columns, def)
	return t
}

// Column appends a column of type ct called name.
func (t *TableCreateStatement) Column(name string, ct ColType) *TableCreateStatement {
	return t.Col(ct.ToDef(name))
}

// Columns returns the columns declared so far.
func (t *TableCreateStatement) Columns() []*ColumnDef { return t.op.Columns }

// PrimaryKey declares a composite primary key.
func (t *TableCreateStatement) PrimaryKey(cols ...string) *TableCreateStatement {
	t.op.PrimaryKey = cols
	return t
}

// Index creates an index on cols after the table.
func (t *TableCreateStatement) Index(cols ...string) *TableCreateStatement {
	t.op.Indexes = append(t.op.Indexes, &ast.IndexDef{Columns: cols})
	return t
}

// UniqueIndex creates a unique index on cols after the table.
func (t *TableCreateStatement) UniqueIndex(cols ...string) *TableCreateStatement {
	t.op.Indexes = append(t.op.Indexes, &ast.IndexDef{Columns: cols, Unique: true})
	return t
}

// NamedIndex creates an index called name on cols after the table.
func (t *TableCreateStatement) NamedIndex(name string, unique bool, cols ...string) *TableCreateStatement {
	t.op.Indexes = append(t.op.Indexes, &ast.IndexDef{Name: name, Columns: cols, Unique: unique})
	return t
}

// ForeignKey declares an inline foreign key referencing table to.
func (t *TableCreateStatement) ForeignKey(to string, fn func(*ForeignKeyCreateStatement)) *TableCreateStatement {
	fk := ForeignKey(t.op.Name, to)
	if fn != nil {
		fn(fk)
	}
	t.op.ForeignKeys = append(t.op.ForeignKeys, &fk.op.ForeignKeyDef)
	return t
}

// Check adds a CHECK constraint. name may be empty.
func (t *TableCreateStatement) Check(name, expr string) *TableCreateStatement {
	t.op.Checks = append(t.op.Checks, &ast.CheckDef{Name: name, Expression: expr})
	return t
}

// Operations implements Statement.
func (t *TableCreateStatement) Operations() []Operation { return []Operation{t.op} }

// -----------------------------------------------------------------------------
// Drop and rename table
// -----------------------------------------------------------------------------

// TableDropStatement builds a DROP TABLE statement.
type TableDropStatement struct {
	op *ast.DropTable
}

// TableDrop starts a DROP TABLE statement.
func TableDrop(name string) *TableDropStatement {
	return &TableDropStatement{op: &ast.DropTable{Name: name}}
}

// IfExists tolerates a missing table.
func (d *TableDropStatement) IfExists() *TableDropStatement {
	d.op.IfExists = true
	return d
}

// Cascade also drops dependent objects. Postgres only.
func (d *TableDropStatement) Cascade() *TableDropStatement {
	d.op.Cascade = true
	return d
}

// Operations implements Statement.
func (d *TableDropStatement) Operations() []Operation { return []Operation{d.op} }

// TableRenameStatement builds a table rename.
type TableRenameStatement struct {
	op *ast.RenameTable
}

// TableRename renames table from to to.
func TableRename(from, to string) *TableRenameStatement {
	return &TableRenameStatement{op: &ast.RenameTable{OldName: from, NewName: to}}
}

// Operations implements Statement.
func (r *TableRenameStatement) Operations() []Operation { return []Operation{r.op} }

// -----------------------------------------------------------------------------
// Alter table
// -----------------------------------------------------------------------------

// TableAlterStatement collects column changes to one table. Changes run in
// declaration order.
type TableAlterStatement struct {
	table string
	ops   []Operation
}

// Alter starts an ALTER TABLE statement.
func Alter(name string) *TableAlterStatement {
	return &TableAlterStatement{table: name}
}

// Name returns the table name.
func (a *TableAlterStatement) Name() string { return a.table }

func (a *TableAlterStatement) ref() ast.TableRef { return ast.TableRef{TableName: a.table} }

// AddColumn adds a column.
func (a *TableAlterStatement) AddColumn(def *ColumnDef) *TableAlterStatement {
	a.ops = append(a.ops, &ast.AddColumn{TableRef: a.ref(), Column: def})
	return a
}

// DropColumn drops a column.
func (a *TableAlterStatement) DropColumn(name string) *TableAlterStatement {
	a.ops = append(a.ops, &ast.DropColumn{TableRef: a.ref(), Name: name})
	return a
}

// RenameColumn renames a column.
func (a *TableAlterStatement) RenameColumn(from, to string) *TableAlterStatement {
	a.ops = append(a.ops, &ast.RenameColumn{TableRef: a.ref(), OldName: from, NewName: to})
	return a
}

// Operations implements Statement.
func (a *TableAlterStatement) Operations() []Operation { return a.ops }

// -----------------------------------------------------------------------------
// Indexes
// -----------------------------------------------------------------------------

// IndexCreateStatement builds a CREATE INDEX statement.
type IndexCreateStatement struct {
	op *ast.CreateIndex
}

// Index starts a CREATE INDEX statement on table.
func Index(table string) *IndexCreateStatement {
	return &IndexCreateStatement{op: &ast.CreateIndex{TableRef: ast.TableRef{TableName: table}}}
}

// Name sets the index name. Without one the name is idx_<table>_<columns>.
func (i *IndexCreateStatement) Name(name string) *IndexCreateStatement {
	i.op.Name = name
	return i
}

// Col appends a column.
func (i *IndexCreateStatement) Col(cols ...string) *IndexCreateStatement {
	i.op.Columns = append(i.op.Columns, cols...)
	return i
}

// Unique makes the index unique.
func (i *IndexCreateStatement) Unique() *IndexCreateStatement {
	i.op.Unique = true
	return i
}

// IfNotExists makes the statement a no-op when the index exists.
// MySQL rejects it.
func (i *IndexCreateStatement) IfNotExists() *IndexCreateStatement {
	i.op.IfNotExists = true
	return i
}

// Operations implements Statement.
func (i *IndexCreateStatement) Operations() []Operation { return []Operation{i.op} }

// IndexDropStatement builds a DROP INDEX statement.
type IndexDropStatement struct {
	op *ast.DropIndex
}

// IndexDrop drops the index name. MySQL needs the table; the other backends
// ignore it.
func IndexDrop(table, name string) *IndexDropStatement {
	return &IndexDropStatement{op: &ast.DropIndex{TableRef: ast.TableRef{TableName: table}, Name: name}}
}

// IfExists tolerates a missing index. MySQL rejects it.
func (i *IndexDropStatement) IfExists() *IndexDropStatement {
	i.op.IfExists = true
	return i
}

// Operations implements Statement.
func (i *IndexDropStatement) Operations() []Operation { return []Operation{i.op} }

// -----------------------------------------------------------------------------
// Foreign keys
// -----------------------------------------------------------------------------

// ForeignKeyCreateStatement builds an ADD FOREIGN KEY statement.
type ForeignKeyCreateStatement struct {
	op *ast.AddForeignKey
}

// ForeignKey starts a foreign key from table from to table to.
func ForeignKey(from, to string) *ForeignKeyCreateStatement {
	return &ForeignKeyCreateStatement{op: &ast.AddForeignKey{
		TableRef:      ast.TableRef{TableName: from},
		ForeignKeyDef: ast.ForeignKeyDef{RefTable: to},
	}}
}

// Name sets the constraint name. Without one the name is fk_<table>_<columns>.
func (f *ForeignKeyCreateStatement) Name(name string) *ForeignKeyCreateStatement {
	f.op.Name = name
	return f
}

// From sets the referencing columns.
func (f *ForeignKeyCreateStatement) From(cols ...string) *ForeignKeyCreateStatement {
	f.op.Columns = cols
	return f
}

// To sets the referenced columns.
func (f *ForeignKeyCreateStatement) To(cols ...string) *ForeignKeyCreateStatement {
	f.op.RefColumns = cols
	return f
}

// OnDelete sets the ON DELETE action (CASCADE, SET NULL, SET DEFAULT, RESTRICT, NO ACTION).
func (f *ForeignKeyCreateStatement) OnDelete(action string) *ForeignKeyCreateStatement {
	f.op.OnDelete = action
	return f
}

// OnUpdate sets the ON UPDATE action.
func (f *ForeignKeyCreateStatement) OnUpdate(action string) *ForeignKeyCreateStatement {
	f.op.OnUpdate = action
	return f
}

// Operations implements Statement.
func (f *ForeignKeyCreateStatement) Operations() []Operation { return []Operation{f.op} }

// ForeignKeyDropStatement drops a foreign key constraint.
type ForeignKeyDropStatement struct {
	op *ast.DropForeignKey
}

// ForeignKeyDrop drops the constraint name from table.
func ForeignKeyDrop(table, name string) *ForeignKeyDropStatement {
	return &ForeignKeyDropStatement{op: &ast.DropForeignKey{TableRef: ast.TableRef{TableName: table}, Name: name}}
}

// Operations implements Statement.
func (f *ForeignKeyDropStatement) Operations() []Operation { return []Operation{f.op} }

// -----------------------------------------------------------------------------
// Raw SQL
// -----------------------------------------------------------------------------

// RawStatement passes SQL through verbatim.
type RawStatement struct {
	op *ast.RawSQL
}

// Raw returns a statement executing sql on every backend.
func Raw(sql string) *RawStatement {
	return &RawStatement{op: &ast.RawSQL{SQL: sql}}
}

// Postgres overrides the statement on Postgres.
func (r *RawStatement) Postgres(sql string) *RawStatement {
	r.op.Postgres = sql
	return r
}

// SQLite overrides the statement on SQLite.
func (r *RawStatement) SQLite(sql string) *RawStatement {
	r.op.SQLite = sql
	return r
}

// MySQL overrides the statement on MySQL.
func (r *RawStatement) MySQL(sql string) *RawStatement {
	r.op.MySQL = sql
	return r
}

// Operations implements Statement.
func (r *RawStatement) Operations() []Operation { return []Operation{r.op} }
