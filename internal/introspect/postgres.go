package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/types"
)

type postgresIntrospector struct {
	q Querier
}

func (p *postgresIntrospector) ListTables(ctx context.Context) ([]string, error) {
	rows, err := p.q.QueryContext(ctx, `
		SELECT tablename FROM pg_tables
		WHERE schemaname = current_schema()
		ORDER BY tablename
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

func (p *postgresIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := p.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_tables
			WHERE schemaname = current_schema() AND tablename = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, alerr.WrapCatalog(err, "check table existence", table)
	}
	return exists, nil
}

func (p *postgresIntrospector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	var exists bool
	err := p.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
		)
	`, table, column).Scan(&exists)
	if err != nil {
		return false, alerr.WrapCatalog(err, "check column existence", table)
	}
	return exists, nil
}

func (p *postgresIntrospector) IndexExists(ctx context.Context, table, index string) (bool, error) {
	var exists bool
	err := p.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = current_schema() AND tablename = $1 AND indexname = $2
		)
	`, table, index).Scan(&exists)
	if err != nil {
		return false, alerr.WrapCatalog(err, "check index existence", table)
	}
	return exists, nil
}

// EnumTypeExists looks the name up in pg_type, restricted to enum types. A
// failed query returns the driver error unchanged.
func (p *postgresIntrospector) EnumTypeExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_type
			WHERE typname = $1 AND typtype = 'e'
		)
	`, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (p *postgresIntrospector) IntrospectTable(ctx context.Context, table string) (*Table, error) {
	return introspectTableCommon(ctx, table, p)
}

func (p *postgresIntrospector) Columns(ctx context.Context, table string) ([]*Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			COALESCE(pk.is_pk, FALSE) as is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name, TRUE as is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.table_name = $1
				AND tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = current_schema()
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = current_schema()
			AND c.table_name = $1
		ORDER BY c.ordinal_position
	`

	rows, err := p.q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect columns", table)
	}
	defer rows.Close()

	var columns []*Column
	for rows.Next() {
		var (
			col                      Column
			udtName, isNullable      string
			maxLen, precision, scale sql.NullInt64
		)
		err := rows.Scan(
			&col.Name,
			&col.DataType,
			&udtName,
			&isNullable,
			&col.Default,
			&maxLen,
			&precision,
			&scale,
			&col.PrimaryKey,
		)
		if err != nil {
			return nil, alerr.WrapCatalog(err, "scan column", table)
		}

		// enums report USER-DEFINED and arrays report ARRAY; udt_name has the detail
		switch col.DataType {
		case "USER-DEFINED":
			col.DataType = udtName
			col.Kind = types.Enum
		case "ARRAY":
			col.DataType = strings.TrimPrefix(udtName, "_") + "[]"
			col.Kind = types.Array
		default:
			col.Kind = MapPostgresType(col.DataType)
		}
		col.Nullable = isNullable == "YES" && !col.PrimaryKey
		col.Length = int(maxLen.Int64)
		col.Precision = int(precision.Int64)
		col.Scale = int(scale.Int64)

		columns = append(columns, &col)
	}
	return columns, rows.Err()
}

func (p *postgresIntrospector) indexes(ctx context.Context, table string) ([]*ast.IndexDef, error) {
	query := `
		SELECT
			i.relname as index_name,
			ix.indisunique as is_unique,
			array_to_string(array_agg(a.attname ORDER BY x.n), ',') as columns
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS x(attnum, n) ON TRUE
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = x.attnum
		WHERE t.relname = $1
			AND t.relnamespace = (SELECT oid FROM pg_namespace WHERE nspname = current_schema())
			AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`

	rows, err := p.q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, alerr.WrapCatalog(err, "introspect indexes", table)
	}
	defer rows.Close()

	var indexes []*ast.IndexDef
	for rows.Next() {
		var name, columns string
		var unique bool
		if err := rows.Scan(&name, &unique, &columns); err != nil {
			return nil, alerr.WrapCatalog(err, "scan index", table)
		}
		indexes = append(indexes, &ast.IndexDef{
			Name:    name,
			Columns: strings.Split(columns, ","),
			Unique:  unique,
		})
	}
	return indexes, rows.Err()
}

func (p *postgresIntrospector) foreignKeys(ctx context.Context, table string) ([]*ast.ForeignKeyDef, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints AS rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_name = $1
			AND tc.table_schema = current_schema()
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := p.q.QueryContext(ctx, query, table)
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
