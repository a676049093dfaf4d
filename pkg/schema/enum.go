package schema

import (
	"context"

	"github.com/hlop3z/schemakit/internal/ast"
)

// EnumDescriptor names a database-level enumerated type and its values.
type EnumDescriptor struct {
	Name   string
	Values []string
}

// BuildEnumColumn returns a column bound to the enumerated type enumName.
// def, when non-nil, is the default value.
func BuildEnumColumn(name, enumName string, values []string, nullable bool, def *string) *ColumnDef {
	t := Enum(enumName, values...)
	if nullable {
		t = t.Null()
	}
	if def != nil {
		t = t.WithDefault(*def)
	}
	return t.ToDef(name)
}

// EnumTypeExists reports whether the native enumerated type exists. Postgres
// consults pg_type; backends without native enums always report false.
// Catalog errors are returned to the caller.
func EnumTypeExists(ctx context.Context, m *Manager, enumName string) (bool, error) {
	return m.EnumTypeExists(ctx, enumName)
}

// EnsureEnumType creates the native enumerated type when it is missing.
// It does nothing on backends without native enums, where enum columns carry
// their values inline.
func EnsureEnumType(ctx context.Context, m *Manager, name string, values ...string) error {
	if !m.SupportsNativeEnums() {
		return nil
	}
	exists, err := m.EnumTypeExists(ctx, name)
	if err != nil || exists {
		return err
	}
	return m.Apply(ctx, CreateType(name, values...))
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

// TypeCreateStatement creates a native enumerated type.
type TypeCreateStatement struct {
	op *ast.CreateEnumType
}

// CreateType returns a statement creating the enumerated type name.
func CreateType(name string, values ...string) *TypeCreateStatement {
	return &TypeCreateStatement{op: &ast.CreateEnumType{Name: name, Values: values}}
}

// Values appends allowed values.
func (s *TypeCreateStatement) Values(values ...string) *TypeCreateStatement {
	s.op.Values = append(s.op.Values, values...)
	return s
}

// Operations implements Statement.
func (s *TypeCreateStatement) Operations() []Operation { return []Operation{s.op} }

// TypeDropStatement drops a native enumerated type.
type TypeDropStatement struct {
	op *ast.DropEnumType
}

// DropType returns a statement dropping the enumerated type name.
func DropType(name string) *TypeDropStatement {
	return &TypeDropStatement{op: &ast.DropEnumType{Name: name}}
}

// IfExists tolerates a missing type.
func (s *TypeDropStatement) IfExists() *TypeDropStatement {
	s.op.IfExists = true
	return s
}

// Operations implements Statement.
func (s *TypeDropStatement) Operations() []Operation { return []Operation{s.op} }
