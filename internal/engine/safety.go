package engine

import (
	"context"
	"fmt"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
)

// DataLoss describes a drop that would discard stored values. Table and
// Column name the target as it exists in the catalog, before any rename in
// the same batch.
type DataLoss struct {
	Op     ast.Operation
	Table  string
	Column string // empty when the whole table is dropped
	Rows   int64  // rows in the table, or non-null values in the column
}

// String describes the loss, e.g. `drop column users.bio (3 values)`.
func (d DataLoss) String() string {
	if d.Column == "" {
		return fmt.Sprintf("drop table %s (%d rows)", d.Table, d.Rows)
	}
	return fmt.Sprintf("drop column %s.%s (%d values)", d.Table, d.Column, d.Rows)
}

// DataLoss reports the table and column drops in ops that would discard
// data. Renames earlier in ops are followed, so a drop is checked against
// the object it names in the catalog. Drops of missing or empty targets are
// not reported.
func (e *Executor) DataLoss(ctx context.Context, ops ...ast.Operation) ([]DataLoss, error) {
	names := newCatalogNames()

	var out []DataLoss
	for _, op := range ops {
		var (
			loss *DataLoss
			err  error
		)
		switch v := op.(type) {
		case *ast.RenameTable:
			names.renameTable(v.OldName, v.NewName)
		case *ast.RenameColumn:
			names.renameColumn(v.Table(), v.OldName, v.NewName)
		case *ast.AddColumn:
			if v.Column != nil {
				names.forgetColumn(v.Table(), v.Column.Name)
			}
		case *ast.DropTable:
			if table := names.table(v.Name); table != "" {
				loss, err = e.checkDropTable(ctx, v, table)
			}
			names.forgetTable(v.Name)
		case *ast.DropColumn:
			if table, column := names.column(v.Table(), v.Name); column != "" {
				loss, err = e.checkDropColumn(ctx, v, table, column)
			}
			names.forgetColumn(v.Table(), v.Name)
		}
		if err != nil {
			return nil, err
		}
		if loss != nil {
			out = append(out, *loss)
		}
	}
	return out, nil
}

func (e *Executor) checkDropTable(ctx context.Context, op *ast.DropTable, table string) (*DataLoss, error) {
	exists, err := e.Introspector().TableExists(ctx, table)
	if err != nil || !exists {
		return nil, err
	}

	query := "SELECT COUNT(*) FROM " + e.dialect.QuoteIdent(table)
	rows, err := e.count(ctx, query, table)
	if err != nil || rows == 0 {
		return nil, err
	}
	return &DataLoss{Op: op, Table: table, Rows: rows}, nil
}

func (e *Executor) checkDropColumn(ctx context.Context, op *ast.DropColumn, table, column string) (*DataLoss, error) {
	exists, err := e.Introspector().ColumnExists(ctx, table, column)
	if err != nil || !exists {
		return nil, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NOT NULL",
		e.dialect.QuoteIdent(table), e.dialect.QuoteIdent(column))
	rows, err := e.count(ctx, query, table)
	if err != nil || rows == 0 {
		return nil, err
	}
	return &DataLoss{Op: op, Table: table, Column: column, Rows: rows}, nil
}

func (e *Executor) count(ctx context.Context, query, table string) (int64, error) {
	var n int64
	if err := e.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, alerr.WrapCatalog(err, "count rows", table).WithSQL(query)
	}
	return n, nil
}

// catalogNames maps the names a batch of operations uses back to the catalog
// names they started from. An empty mapping means the name no longer refers
// to anything in the catalog.
type catalogNames struct {
	tables  map[string]string
	columns map[string]string // keyed by catalog table + "." + current column
}

func newCatalogNames() *catalogNames {
	return &catalogNames{
		tables:  make(map[string]string),
		columns: make(map[string]string),
	}
}

func (c *catalogNames) table(name string) string {
	if orig, ok := c.tables[name]; ok {
		return orig
	}
	return name
}

func (c *catalogNames) column(table, name string) (string, string) {
	t := c.table(table)
	if t == "" {
		return "", ""
	}
	if orig, ok := c.columns[t+"."+name]; ok {
		return t, orig
	}
	return t, name
}

func (c *catalogNames) renameTable(from, to string) {
	c.tables[to] = c.table(from)
	c.tables[from] = ""
}

func (c *catalogNames) renameColumn(table, from, to string) {
	t, orig := c.column(table, from)
	if t == "" {
		return
	}
	c.columns[t+"."+to] = orig
	c.columns[t+"."+from] = ""
}

func (c *catalogNames) forgetTable(name string) {
	c.tables[name] = ""
}

func (c *catalogNames) forgetColumn(table, name string) {
	if t := c.table(table); t != "" {
		c.columns[t+"."+name] = ""
	}
}
