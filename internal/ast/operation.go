package ast

import (
	"github.com/hlop3z/schemakit/internal/alerr"
)

// Operation represents a single atomic change to the database schema.
type Operation interface {
	// Type returns the operation type (OpCreateTable, OpAddColumn, etc.)
	Type() OpType

	// Table returns the table the operation targets, or "" when it targets none.
	Table() string

	// Validate checks that the operation is well-formed.
	Validate() error
}

// TableRef names the table a column, index or constraint operation targets.
type TableRef struct {
	TableName string
}

// Table returns the target table name.
func (t TableRef) Table() string {
	return t.TableName
}

func (t TableRef) require(op string) error {
	if t.TableName == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired+" for "+op)
	}
	return ValidateIdentifier(t.TableName)
}

// -----------------------------------------------------------------------------
// CreateTable - creates a new table
// -----------------------------------------------------------------------------

// CreateTable represents creating a new table with columns and constraints.
// Indexes are created by follow-up statements after the table exists.
type CreateTable struct {
	Name        string
	Columns     []*ColumnDef
	PrimaryKey  []string // composite primary key; empty when a column carries it
	Indexes     []*IndexDef
	ForeignKeys []*ForeignKeyDef
	Checks      []*CheckDef
	IfNotExists bool
}

func (op *CreateTable) Type() OpType  { return OpCreateTable }
func (op *CreateTable) Table() string { return op.Name }

func (op *CreateTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if err := ValidateIdentifier(op.Name); err != nil {
		return err
	}
	if len(op.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNeedsColumn).
			WithTable(op.Name)
	}

	seen := make(map[string]bool, len(op.Columns))
	pkColumns := 0
	for _, col := range op.Columns {
		if err := col.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
				WithTable(op.Name).
				WithColumn(col.Name)
		}
		if seen[col.Name] {
			return alerr.New(alerr.ErrDuplicateColumn, "column declared twice").
				WithTable(op.Name).
				WithColumn(col.Name)
		}
		seen[col.Name] = true
		if col.PrimaryKey {
			pkColumns++
		}
	}

	if pkColumns > 1 || (pkColumns == 1 && len(op.PrimaryKey) > 0) {
		return alerr.New(alerr.ErrSchemaInvalid, "table declares more than one primary key").
			WithTable(op.Name)
	}
	for _, name := range op.PrimaryKey {
		if !seen[name] {
			return alerr.New(alerr.ErrSchemaInvalid, "primary key references an undeclared column").
				WithTable(op.Name).
				WithColumn(name)
		}
	}

	for _, idx := range op.Indexes {
		if err := idx.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid index").
				WithTable(op.Name)
		}
	}
	for _, fk := range op.ForeignKeys {
		if err := fk.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid foreign key").
				WithTable(op.Name)
		}
	}
	for _, chk := range op.Checks {
		if err := chk.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid check constraint").
				WithTable(op.Name)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropTable - removes an existing table
// -----------------------------------------------------------------------------

// DropTable represents dropping an existing table.
type DropTable struct {
	Name     string
	IfExists bool
	Cascade  bool // Postgres only
}

func (op *DropTable) Type() OpType  { return OpDropTable }
func (op *DropTable) Table() string { return op.Name }

func (op *DropTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired+" for drop")
	}
	return ValidateIdentifier(op.Name)
}

// -----------------------------------------------------------------------------
// RenameTable - renames an existing table
// -----------------------------------------------------------------------------

// RenameTable represents renaming an existing table.
type RenameTable struct {
	OldName string
	NewName string
}

func (op *RenameTable) Type() OpType  { return OpRenameTable }
func (op *RenameTable) Table() string { return op.OldName }

func (op *RenameTable) Validate() error {
	if op.OldName == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "old table name is required for rename")
	}
	if op.NewName == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "new table name is required for rename")
	}
	if op.OldName == op.NewName {
		return alerr.New(alerr.ErrSchemaInvalid, "old and new table names must be different").
			WithTable(op.OldName)
	}
	return ValidateIdentifier(op.NewName)
}

// -----------------------------------------------------------------------------
// AddColumn - adds a column to an existing table
// -----------------------------------------------------------------------------

// AddColumn represents adding a new column to an existing table.
type AddColumn struct {
	TableRef
	Column *ColumnDef
}

func (op *AddColumn) Type() OpType { return OpAddColumn }

func (op *AddColumn) Validate() error {
	if err := op.require("add column"); err != nil {
		return err
	}
	if op.Column == nil {
		return alerr.New(alerr.ErrSchemaInvalid, "column definition is required").
			WithTable(op.TableName)
	}
	if err := op.Column.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
			WithTable(op.TableName).
			WithColumn(op.Column.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropColumn - removes a column from an existing table
// -----------------------------------------------------------------------------

// DropColumn represents removing a column from an existing table.
type DropColumn struct {
	TableRef
	Name string
}

func (op *DropColumn) Type() OpType { return OpDropColumn }

func (op *DropColumn) Validate() error {
	if err := op.require("drop column"); err != nil {
		return err
	}
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "column name is required for drop column").
			WithTable(op.TableName)
	}
	return nil
}

// -----------------------------------------------------------------------------
// RenameColumn - renames a column
// -----------------------------------------------------------------------------

// RenameColumn represents renaming a column in an existing table.
type RenameColumn struct {
	TableRef
	OldName string
	NewName string
}

func (op *RenameColumn) Type() OpType { return OpRenameColumn }

func (op *RenameColumn) Validate() error {
	if err := op.require("rename column"); err != nil {
		return err
	}
	if op.OldName == "" || op.NewName == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "old and new column names are required for rename").
			WithTable(op.TableName)
	}
	if op.OldName == op.NewName {
		return alerr.New(alerr.ErrSchemaInvalid, "old and new column names must be different").
			WithTable(op.TableName).
			WithColumn(op.OldName)
	}
	return ValidateIdentifier(op.NewName)
}

// -----------------------------------------------------------------------------
// CreateIndex - creates a new index
// -----------------------------------------------------------------------------

// CreateIndex represents creating a new index on one or more columns.
type CreateIndex struct {
	TableRef
	Name        string // generated when empty
	Columns     []string
	Unique      bool
	IfNotExists bool
}

func (op *CreateIndex) Type() OpType { return OpCreateIndex }

func (op *CreateIndex) Validate() error {
	if err := op.require("create index"); err != nil {
		return err
	}
	idx := IndexDef{Name: op.Name, Columns: op.Columns, Unique: op.Unique}
	if err := idx.Validate(); err != nil {
		return err.(*alerr.Error).WithTable(op.TableName)
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropIndex - removes an existing index
// -----------------------------------------------------------------------------

// DropIndex represents removing an existing index. The table is only used by
// backends that scope index names per table (MySQL).
type DropIndex struct {
	TableRef
	Name     string
	IfExists bool
}

func (op *DropIndex) Type() OpType { return OpDropIndex }

func (op *DropIndex) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "index name is required for drop index")
	}
	return ValidateIdentifier(op.Name)
}

// -----------------------------------------------------------------------------
// AddForeignKey - adds a foreign key constraint
// -----------------------------------------------------------------------------

// AddForeignKey represents adding a foreign key constraint to an existing table.
type AddForeignKey struct {
	TableRef
	ForeignKeyDef
}

func (op *AddForeignKey) Type() OpType { return OpAddForeignKey }

func (op *AddForeignKey) Validate() error {
	if err := op.require("add foreign key"); err != nil {
		return err
	}
	if err := op.ForeignKeyDef.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid foreign key").
			WithTable(op.TableName)
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropForeignKey - removes a foreign key constraint
// -----------------------------------------------------------------------------

// DropForeignKey represents removing a foreign key constraint.
type DropForeignKey struct {
	TableRef
	Name string
}

func (op *DropForeignKey) Type() OpType { return OpDropForeignKey }

func (op *DropForeignKey) Validate() error {
	if err := op.require("drop foreign key"); err != nil {
		return err
	}
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "constraint name is required for drop foreign key").
			WithTable(op.TableName)
	}
	return nil
}

// -----------------------------------------------------------------------------
// CreateEnumType / DropEnumType - native enumerated types
// -----------------------------------------------------------------------------

// CreateEnumType represents creating a native enumerated type.
type CreateEnumType struct {
	Name   string
	Values []string
}

func (op *CreateEnumType) Type() OpType  { return OpCreateEnumType }
func (op *CreateEnumType) Table() string { return "" }

func (op *CreateEnumType) Validate() error {
	if err := ValidateIdentifier(op.Name); err != nil {
		return err
	}
	if len(op.Values) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, "enum type requires at least one value").
			With("type", op.Name)
	}
	seen := make(map[string]bool, len(op.Values))
	for _, v := range op.Values {
		if seen[v] {
			return alerr.New(alerr.ErrSchemaInvalid, "enum value declared twice").
				With("type", op.Name).
				With("value", v)
		}
		seen[v] = true
	}
	return nil
}

// DropEnumType represents removing a native enumerated type.
type DropEnumType struct {
	Name     string
	IfExists bool
}

func (op *DropEnumType) Type() OpType  { return OpDropEnumType }
func (op *DropEnumType) Table() string { return "" }

func (op *DropEnumType) Validate() error {
	return ValidateIdentifier(op.Name)
}

// -----------------------------------------------------------------------------
// RawSQL - executes raw SQL
// -----------------------------------------------------------------------------

// RawSQL is a statement passed through verbatim. A per-dialect override wins
// over SQL when the active backend matches.
type RawSQL struct {
	SQL      string
	Postgres string
	SQLite   string
	MySQL    string
}

func (op *RawSQL) Type() OpType  { return OpRawSQL }
func (op *RawSQL) Table() string { return "" }

func (op *RawSQL) Validate() error {
	if op.SQL == "" && op.Postgres == "" && op.SQLite == "" && op.MySQL == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "raw SQL statement is required")
	}
	return nil
}

// For returns the statement for the named dialect, or "" when none applies.
func (op *RawSQL) For(dialect string) string {
	var override string
	switch dialect {
	case "postgres":
		override = op.Postgres
	case "sqlite":
		override = op.SQLite
	case "mysql":
		override = op.MySQL
	}
	if override != "" {
		return override
	}
	return op.SQL
}
