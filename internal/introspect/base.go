package introspect

import (
	"context"
	"slices"
	"strings"

	"github.com/hlop3z/schemakit/internal/ast"
)

// catalog is implemented by each backend; the shared helpers below assemble
// its answers into a Table.
type catalog interface {
	Columns(ctx context.Context, table string) ([]*Column, error)
	indexes(ctx context.Context, table string) ([]*ast.IndexDef, error)
	foreignKeys(ctx context.Context, table string) ([]*ast.ForeignKeyDef, error)
}

// introspectTableCommon is the shared implementation of IntrospectTable.
func introspectTableCommon(ctx context.Context, table string, c catalog) (*Table, error) {
	columns, err := c.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil // Table doesn't exist
	}

	indexes, err := c.indexes(ctx, table)
	if err != nil {
		return nil, err
	}

	foreignKeys, err := c.foreignKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	return &Table{
		Name:        table,
		Columns:     columns,
		Indexes:     markUniqueColumnsAndFilterAutoIndexes(columns, indexes),
		ForeignKeys: foreignKeys,
	}, nil
}

// columnExistsCommon is the shared implementation of ColumnExists.
func columnExistsCommon(ctx context.Context, c catalog, table, column string) (bool, error) {
	columns, err := c.Columns(ctx, table)
	if err != nil {
		return false, err
	}
	for _, col := range columns {
		if col.Name == column {
			return true, nil
		}
	}
	return false, nil
}

// markUniqueColumnsAndFilterAutoIndexes marks columns as Unique when a
// single-column unique index covers them, and drops the indexes SQLite and
// MySQL create implicitly for column constraints.
func markUniqueColumnsAndFilterAutoIndexes(columns []*Column, indexes []*ast.IndexDef) []*ast.IndexDef {
	colMap := make(map[string]*Column, len(columns))
	for _, col := range columns {
		colMap[col.Name] = col
	}

	isConstraintIndex := make(map[string]bool)
	for _, idx := range indexes {
		if !idx.Unique || len(idx.Columns) != 1 {
			continue
		}
		col, exists := colMap[idx.Columns[0]]
		if !exists {
			continue
		}
		col.Unique = true
		// implicit: sqlite_autoindex_t_1, or MySQL naming the key after the column
		if strings.HasPrefix(idx.Name, "sqlite_autoindex_") || idx.Name == col.Name {
			isConstraintIndex[idx.Name] = true
		}
	}

	filtered := make([]*ast.IndexDef, 0, len(indexes))
	for _, idx := range indexes {
		if !isConstraintIndex[idx.Name] {
			filtered = append(filtered, idx)
		}
	}
	return filtered
}

// FKAccumulator merges composite FK columns into single FK definitions.
// Catalogs return foreign keys row-by-row, one row per column.
type FKAccumulator struct {
	fks   map[string]*ast.ForeignKeyDef
	order []string // preserve insertion order
}

// NewFKAccumulator creates a new FKAccumulator.
func NewFKAccumulator() *FKAccumulator {
	return &FKAccumulator{
		fks: make(map[string]*ast.ForeignKeyDef),
	}
}

// Add adds or extends a foreign key entry.
func (a *FKAccumulator) Add(name, column, refTable, refColumn, onDelete, onUpdate string) {
	if fk, exists := a.fks[name]; exists {
		fk.Columns = append(fk.Columns, column)
		fk.RefColumns = append(fk.RefColumns, refColumn)
		return
	}
	a.fks[name] = &ast.ForeignKeyDef{
		Name:       name,
		Columns:    []string{column},
		RefTable:   refTable,
		RefColumns: []string{refColumn},
		OnDelete:   normalizeAction(onDelete),
		OnUpdate:   normalizeAction(onUpdate),
	}
	a.order = append(a.order, name)
}

// Values returns all accumulated foreign keys in insertion order.
func (a *FKAccumulator) Values() []*ast.ForeignKeyDef {
	result := make([]*ast.ForeignKeyDef, 0, len(a.fks))
	for _, name := range a.order {
		result = append(result, a.fks[name])
	}
	return result
}

func sortIndexes(indexes []*ast.IndexDef) {
	slices.SortFunc(indexes, func(a, b *ast.IndexDef) int {
		return strings.Compare(a.Name, b.Name)
	})
}
