package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/dialect"
)

type sqliteIntrospector struct {
	q       Querier
	dialect dialect.Dialect
}

func (s *sqliteIntrospector) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
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

func (s *sqliteIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, table).Scan(&n)
	if err != nil {
		return false, alerr.WrapCatalog(err, "check table existence", table)
	}
	return n > 0, nil
}

func (s *sqliteIntrospector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	return columnExistsCommon(ctx, s, table, column)
}

func (s *sqliteIntrospector) IndexExists(ctx context.Context, table, index string) (bool, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND tbl_name = ? AND name = ?
	`, table, index).Scan(&n)
	if err != nil {
		return false, alerr.WrapCatalog(err, "check index existence", table)
	}
	return n > 0, nil
}

// EnumTypeExists always reports false: SQLite has no enumerated types and
// enum columns are TEXT with a CHECK constraint.
func (s *sqliteIntrospector) EnumTypeExists(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (s *sqliteIntrospector) IntrospectTable(ctx context.Context, table string) (*Table, error) {
	return introspectTableCommon(ctx, table, s)
}

// sizedType captures the bounds of a declared type such as VARCHAR(64) or
// DECIMAL(10, 2).
var sizedType = regexp.MustCompile(`^\s*([A-Za-z ]+?)\s*\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)\s*$`)

func (s *sqliteIntrospector) Columns(ctx context.Context, table string) ([]*Column, error) {
	// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
	query := fmt.Sprintf("PRAGMA table_info(%s)", s.dialect.QuoteIdent(table))

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect columns", table)
	}
	defer rows.Close()

	var columns []*Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			col              Column
			defaultVal       sql.NullString
		)
		if err := rows.Scan(&cid, &col.Name, &col.DataType, &notNull, &defaultVal, &pk); err != nil {
			return nil, alerr.WrapCatalog(err, "scan column", table)
		}

		col.Default = defaultVal
		col.PrimaryKey = pk > 0
		col.Nullable = notNull == 0 && !col.PrimaryKey
		col.Kind = MapSQLiteType(col.DataType)

		if m := sizedType.FindStringSubmatch(col.DataType); m != nil {
			first, _ := strconv.Atoi(m[2])
			if m[3] != "" {
				col.Precision = first
				col.Scale, _ = strconv.Atoi(m[3])
			} else {
				col.Length = first
			}
		}

		columns = append(columns, &col)
	}
	return columns, rows.Err()
}

func (s *sqliteIntrospector) indexes(ctx context.Context, table string) ([]*ast.IndexDef, error) {
	// PRAGMA index_list returns: seq, name, unique, origin, partial.
	// The names are collected and the rows closed before index_info runs, so
	// a single-connection pool never waits on itself.
	query := fmt.Sprintf("PRAGMA index_list(%s)", s.dialect.QuoteIdent(table))
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect indexes", table)
	}

	var indexes []*ast.IndexDef
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, alerr.WrapCatalog(err, "scan index", table)
		}
		// origin "pk" is the rowid alias or the primary key constraint
		if origin == "pk" {
			continue
		}
		indexes = append(indexes, &ast.IndexDef{Name: name, Unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, alerr.WrapCatalog(err, "iterate indexes", table)
	}
	rows.Close()

	for _, idx := range indexes {
		columns, err := s.indexColumns(ctx, idx.Name)
		if err != nil {
			return nil, err
		}
		idx.Columns = columns
	}

	// list order is most-recent first; catalog order is by name
	sortIndexes(indexes)
	return indexes, nil
}

func (s *sqliteIntrospector) indexColumns(ctx context.Context, index string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", s.dialect.QuoteIdent(index))
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "get index info", "").With("index", index)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, alerr.WrapCatalog(err, "scan index column", "").With("index", index)
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

func (s *sqliteIntrospector) foreignKeys(ctx context.Context, table string) ([]*ast.ForeignKeyDef, error) {
	// PRAGMA foreign_key_list returns: id, seq, table, from, to, on_update, on_delete, match
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", s.dialect.QuoteIdent(table))

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect foreign keys", table)
	}
	defer rows.Close()

	acc := NewFKAccumulator()
	for rows.Next() {
		var id, seq int
		var refTable, from, onUpdate, onDelete, match string
		var to sql.NullString
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, alerr.WrapCatalog(err, "scan foreign key", table)
		}
		// SQLite does not keep constraint names; use the generated form
		name := fmt.Sprintf("fk_%s_%d", table, id)
		acc.Add(name, from, refTable, to.String, onDelete, onUpdate)
	}
	return acc.Values(), rows.Err()
}
