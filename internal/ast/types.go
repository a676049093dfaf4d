// Package ast defines the statement objects handed to the schema manager.
// Each Operation is one atomic DDL change that a dialect renders to SQL.
package ast

// OpType represents the type of a schema operation.
type OpType int

const (
	// OpCreateTable creates a new table with columns and constraints.
	OpCreateTable OpType = iota

	// OpDropTable removes an existing table.
	OpDropTable

	// OpRenameTable changes a table's name.
	OpRenameTable

	// OpAddColumn adds a new column to an existing table.
	OpAddColumn

	// OpDropColumn removes a column from an existing table.
	OpDropColumn

	// OpRenameColumn changes a column's name.
	OpRenameColumn

	// OpCreateIndex creates an index on one or more columns.
	OpCreateIndex

	// OpDropIndex removes an existing index.
	OpDropIndex

	// OpAddForeignKey adds a foreign key constraint to an existing table.
	OpAddForeignKey

	// OpDropForeignKey removes a foreign key constraint.
	OpDropForeignKey

	// OpCreateEnumType creates a native enumerated type.
	OpCreateEnumType

	// OpDropEnumType removes a native enumerated type.
	OpDropEnumType

	// OpRawSQL executes raw SQL.
	OpRawSQL
)

// String returns the string representation of an OpType.
func (o OpType) String() string {
	switch o {
	case OpCreateTable:
		return "CreateTable"
	case OpDropTable:
		return "DropTable"
	case OpRenameTable:
		return "RenameTable"
	case OpAddColumn:
		return "AddColumn"
	case OpDropColumn:
		return "DropColumn"
	case OpRenameColumn:
		return "RenameColumn"
	case OpCreateIndex:
		return "CreateIndex"
	case OpDropIndex:
		return "DropIndex"
	case OpAddForeignKey:
		return "AddForeignKey"
	case OpDropForeignKey:
		return "DropForeignKey"
	case OpCreateEnumType:
		return "CreateEnumType"
	case OpDropEnumType:
		return "DropEnumType"
	case OpRawSQL:
		return "RawSQL"
	default:
		return "Unknown"
	}
}
