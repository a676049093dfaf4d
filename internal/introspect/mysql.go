package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
)

type mysqlIntrospector struct {
	q Querier
}

func (m *mysqlIntrospector) ListTables(ctx context.Context) ([]string, error) {
	rows, err := m.q.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "list tables", "")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, alerr.WrapCatalog(err, "scan table name", "")
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (m *mysqlIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	return m.count(ctx, "check table existence", table, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?
	`, table)
}

func (m *mysqlIntrospector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	return m.count(ctx, "check column existence", table, `
		SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?
	`, table, column)
}

func (m *mysqlIntrospector) IndexExists(ctx context.Context, table, index string) (bool, error) {
	return m.count(ctx, "check index existence", table, `
		SELECT COUNT(*) FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
	`, table, index)
}

// EnumTypeExists always reports false: MySQL enums are inline column types,
// never named catalog objects.
func (m *mysqlIntrospector) EnumTypeExists(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (m *mysqlIntrospector) count(ctx context.Context, op, table, query string, args ...any) (bool, error) {
	var n int
	if err := m.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, alerr.WrapCatalog(err, op, table)
	}
	return n > 0, nil
}

func (m *mysqlIntrospector) IntrospectTable(ctx context.Context, table string) (*Table, error) {
	return introspectTableCommon(ctx, table, m)
}

func (m *mysqlIntrospector) Columns(ctx context.Context, table string) ([]*Column, error) {
	query := `
		SELECT
			column_name,
			column_type,
			data_type,
			is_nullable,
			column_default,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := m.q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect columns", table)
	}
	defer rows.Close()

	var columns []*Column
	for rows.Next() {
		var (
			col                          Column
			dataType, isNullable, colKey string
			maxLen, precision, scale     sql.NullInt64
		)
		err := rows.Scan(
			&col.Name,
			&col.DataType,
			&dataType,
			&isNullable,
			&col.Default,
			&maxLen,
			&precision,
			&scale,
			&colKey,
		)
		if err != nil {
			return nil, alerr.WrapCatalog(err, "scan column", table)
		}

		col.PrimaryKey = colKey == "PRI"
		col.Unique = colKey == "UNI"
		col.Nullable = isNullable == "YES" && !col.PrimaryKey
		col.Kind = MapMySQLType(col.DataType)
		if strings.Contains(strings.ToLower(dataType), "char") || strings.Contains(strings.ToLower(dataType), "binary") {
			col.Length = int(maxLen.Int64)
		}
		if strings.EqualFold(dataType, "decimal") {
			col.Precision = int(precision.Int64)
			col.Scale = int(scale.Int64)
		}

		columns = append(columns, &col)
	}
	return columns, rows.Err()
}

func (m *mysqlIntrospector) indexes(ctx context.Context, table string) ([]*ast.IndexDef, error) {
	query := `
		SELECT index_name, non_unique, column_name
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND index_name <> 'PRIMARY'
		ORDER BY index_name, seq_in_index
	`

	rows, err := m.q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect indexes", table)
	}
	defer rows.Close()

	var indexes []*ast.IndexDef
	byName := make(map[string]*ast.IndexDef)
	for rows.Next() {
		var name, column string
		var nonUnique int
		if err := rows.Scan(&name, &nonUnique, &column); err != nil {
			return nil, alerr.WrapCatalog(err, "scan index", table)
		}
		idx, ok := byName[name]
		if !ok {
			idx = &ast.IndexDef{Name: name, Unique: nonUnique == 0}
			byName[name] = idx
			indexes = append(indexes, idx)
		}
		idx.Columns = append(idx.Columns, column)
	}
	return indexes, rows.Err()
}

func (m *mysqlIntrospector) foreignKeys(ctx context.Context, table string) ([]*ast.ForeignKeyDef, error) {
	query := `
		SELECT
			kcu.constraint_name,
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_name = kcu.constraint_name
			AND rc.constraint_schema = kcu.table_schema
		WHERE kcu.table_schema = DATABASE()
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`

	rows, err := m.q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect foreign keys", table)
	}
	defer rows.Close()

	acc := NewFKAccumulator()
	for rows.Next() {
		var name, column, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, alerr.WrapCatalog(err, "scan foreign key", table)
		}
		acc.Add(name, column, refTable, refColumn, onDelete, onUpdate)
	}
	return acc.Values(), rows.Err()
}
