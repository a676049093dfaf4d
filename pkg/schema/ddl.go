package schema

import (
	"context"
)

// Applier executes statements. *Manager implements it.
type Applier interface {
	Apply(ctx context.Context, stmts ...Statement) error
}

// CreateTable creates table name if it does not exist. fn declares its
// columns and constraints.
//
//	schema.CreateTable(ctx, m, "users", func(t *schema.TableCreateStatement) {
//		t.Column("id", schema.PkAuto()).Column("email", schema.StringLen(255).Uniq())
//	})
func CreateTable(ctx context.Context, m Applier, name string, fn func(*TableCreateStatement)) error {
	t := Table(name).IfNotExists()
	if fn != nil {
		fn(t)
	}
	return m.Apply(ctx, t)
}

// DropTable drops table name.
func DropTable(ctx context.Context, m Applier, name string) error {
	return m.Apply(ctx, TableDrop(name))
}

// AddColumn adds def to table.
func AddColumn(ctx context.Context, m Applier, table string, def *ColumnDef) error {
	return m.Apply(ctx, Alter(table).AddColumn(def))
}

// RemoveColumn drops column from table.
func RemoveColumn(ctx context.Context, m Applier, table, column string) error {
	return m.Apply(ctx, Alter(table).DropColumn(column))
}

// RenameColumn renames column from to to on table.
func RenameColumn(ctx context.Context, m Applier, table, from, to string) error {
	return m.Apply(ctx, Alter(table).RenameColumn(from, to))
}

// AddIndex creates an index on table. fn names it and picks its columns.
func AddIndex(ctx context.Context, m Applier, table string, fn func(*IndexCreateStatement)) error {
	idx := Index(table)
	if fn != nil {
		fn(idx)
	}
	return m.Apply(ctx, idx)
}

// RemoveIndex drops the index name on table.
func RemoveIndex(ctx context.Context, m Applier, table, name string) error {
	return m.Apply(ctx, IndexDrop(table, name))
}

// AddForeignKey adds a foreign key from table from to table to. fn picks the
// columns and actions.
func AddForeignKey(ctx context.Context, m Applier, from, to string, fn func(*ForeignKeyCreateStatement)) error {
	fk := ForeignKey(from, to)
	if fn != nil {
		fn(fk)
	}
	return m.Apply(ctx, fk)
}

// RemoveForeignKey drops the foreign key constraint name from table from.
func RemoveForeignKey(ctx context.Context, m Applier, from, name string) error {
	return m.Apply(ctx, ForeignKeyDrop(from, name))
}

// RenameTable renames table from to to.
func RenameTable(ctx context.Context, m Applier, from, to string) error {
	return m.Apply(ctx, TableRename(from, to))
}
