package schema

import (
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/engine"
	"github.com/hlop3z/schemakit/internal/introspect"
	"github.com/hlop3z/schemakit/internal/types"
)

// ColumnDef is the fully specified definition of one column.
type ColumnDef = ast.ColumnDef

// SQLExpr marks a default as a server-side expression rather than a literal.
type SQLExpr = ast.SQLExpr

// Operation is one schema change the manager can render and execute.
type Operation = ast.Operation

// ColumnInfo describes a column as the database reports it.
type ColumnInfo = introspect.Column

// TableInfo describes a table as the database reports it.
type TableInfo = introspect.Table

// DataLoss describes a drop that would discard stored values.
type DataLoss = engine.DataLoss

// CurrentTimestamp is the portable "now" default.
const CurrentTimestamp = ast.CurrentTimestamp

// Expr wraps a raw SQL expression for use as a default.
func Expr(expr string) *SQLExpr {
	return ast.Expr(expr)
}

// Kinds lists every supported column kind in name order.
func Kinds() []string {
	return types.Names()
}
