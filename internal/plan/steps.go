package plan

import (
	"github.com/mitchellh/mapstructure"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/types"
	"github.com/hlop3z/schemakit/pkg/schema"
)

// Step operation names.
const (
	OpCreateTable      = "create_table"
	OpDropTable        = "drop_table"
	OpAddColumn        = "add_column"
	OpRemoveColumn     = "remove_column"
	OpRenameColumn     = "rename_column"
	OpAddIndex         = "add_index"
	OpRemoveIndex      = "remove_index"
	OpAddForeignKey    = "add_foreign_key"
	OpRemoveForeignKey = "remove_foreign_key"
	OpRenameTable      = "rename_table"
	OpCreateEnum       = "create_enum"
	OpDropEnum         = "drop_enum"
	OpRaw              = "raw"
)

var ops = []string{
	OpCreateTable, OpDropTable,
	OpAddColumn, OpRemoveColumn, OpRenameColumn,
	OpAddIndex, OpRemoveIndex,
	OpAddForeignKey, OpRemoveForeignKey,
	OpRenameTable,
	OpCreateEnum, OpDropEnum,
	OpRaw,
}

// Step is one decoded plan entry.
type Step interface {
	// Op returns the step operation name.
	Op() string

	// Statement builds the schema statement the step applies.
	Statement() (schema.Statement, error)
}

// -----------------------------------------------------------------------------
// Shared specs
// -----------------------------------------------------------------------------

// ColumnSpec declares one column.
type ColumnSpec struct {
	Name        string   `mapstructure:"name"`
	Type        string   `mapstructure:"type"`
	Length      int      `mapstructure:"length"`
	Precision   int      `mapstructure:"precision"`
	Scale       int      `mapstructure:"scale"`
	Nullable    bool     `mapstructure:"nullable"`
	Unique      bool     `mapstructure:"unique"`
	Default     any      `mapstructure:"default"`
	DefaultExpr string   `mapstructure:"default_expr"`
	Enum        string   `mapstructure:"enum"`
	Values      []string `mapstructure:"values"`
	Elem        string   `mapstructure:"elem"`
	Fields      string   `mapstructure:"fields"`
}

// ColType converts the column entry into a column type.
func (c ColumnSpec) ColType() schema.ColType {
	ct := schema.ColType{
		Kind:           types.Normalize(c.Type),
		Length:         c.Length,
		Precision:      c.Precision,
		Scale:          c.Scale,
		IntervalFields: c.Fields,
		Elem:           schema.ArrayKind(c.Elem),
	}
	if c.Enum != "" || len(c.Values) > 0 {
		name := c.Enum
		if name == "" {
			name = c.Name
		}
		ct.Enum = &schema.EnumDescriptor{Name: name, Values: c.Values}
	}
	if c.Nullable {
		ct = ct.Null()
	}
	if c.Unique {
		ct = ct.Uniq()
	}
	switch {
	case c.DefaultExpr != "":
		ct = ct.WithDefault(schema.Expr(c.DefaultExpr))
	case c.Default != nil:
		ct = ct.WithDefault(c.Default)
	}
	return ct
}

// Def returns the column definition.
func (c ColumnSpec) Def() (*schema.ColumnDef, error) {
	if c.Name == "" {
		return nil, alerr.New(alerr.ErrSchemaInvalid, "column name is required")
	}
	if c.Type == "" {
		return nil, alerr.New(alerr.ErrInvalidType, "column type is required").
			WithColumn(c.Name)
	}
	return c.ColType().ToDef(c.Name), nil
}

// IndexSpec declares an index.
type IndexSpec struct {
	Name        string   `mapstructure:"name"`
	Columns     []string `mapstructure:"columns"`
	Unique      bool     `mapstructure:"unique"`
	IfNotExists bool     `mapstructure:"if_not_exists"`
}

// ForeignKeySpec declares a foreign key.
type ForeignKeySpec struct {
	Name       string   `mapstructure:"name"`
	Columns    []string `mapstructure:"columns"`
	References string   `mapstructure:"references"`
	RefColumns []string `mapstructure:"ref_columns"`
	OnDelete   string   `mapstructure:"on_delete"`
	OnUpdate   string   `mapstructure:"on_update"`
}

func (f ForeignKeySpec) apply(fk *schema.ForeignKeyCreateStatement) {
	refCols := f.RefColumns
	if len(refCols) == 0 && len(f.Columns) == 1 {
		refCols = []string{"id"}
	}
	if f.Name != "" {
		fk.Name(f.Name)
	}
	fk.From(f.Columns...).To(refCols...).OnDelete(f.OnDelete).OnUpdate(f.OnUpdate)
}

// CheckSpec declares a CHECK constraint.
type CheckSpec struct {
	Name       string `mapstructure:"name"`
	Expression string `mapstructure:"expression"`
}

// -----------------------------------------------------------------------------
// Steps
// -----------------------------------------------------------------------------

// CreateTableStep creates a table if it does not exist.
type CreateTableStep struct {
	Table       string           `mapstructure:"table"`
	Columns     []ColumnSpec     `mapstructure:"columns"`
	PrimaryKey  []string         `mapstructure:"primary_key"`
	Indexes     []IndexSpec      `mapstructure:"indexes"`
	ForeignKeys []ForeignKeySpec `mapstructure:"foreign_keys"`
	Checks      []CheckSpec      `mapstructure:"checks"`
	Timestamps  bool             `mapstructure:"timestamps"`
}

func (s *CreateTableStep) Op() string { return OpCreateTable }

func (s *CreateTableStep) Statement() (schema.Statement, error) {
	t := schema.Table(s.Table).IfNotExists()
	for _, c := range s.Columns {
		def, err := c.Def()
		if err != nil {
			return nil, err
		}
		t.Col(def)
	}
	if s.Timestamps {
		schema.TimestampsTz(t)
	}
	if len(s.PrimaryKey) > 0 {
		t.PrimaryKey(s.PrimaryKey...)
	}
	for _, idx := range s.Indexes {
		t.NamedIndex(idx.Name, idx.Unique, idx.Columns...)
	}
	for _, fk := range s.ForeignKeys {
		t.ForeignKey(fk.References, fk.apply)
	}
	for _, chk := range s.Checks {
		t.Check(chk.Name, chk.Expression)
	}
	return t, nil
}

// DropTableStep drops a table.
type DropTableStep struct {
	Table string `mapstructure:"table"`
}

func (s *DropTableStep) Op() string { return OpDropTable }

func (s *DropTableStep) Statement() (schema.Statement, error) {
	return schema.TableDrop(s.Table), nil
}

// AddColumnStep adds a column.
type AddColumnStep struct {
	Table  string     `mapstructure:"table"`
	Column ColumnSpec `mapstructure:"column"`
}

func (s *AddColumnStep) Op() string { return OpAddColumn }

func (s *AddColumnStep) Statement() (schema.Statement, error) {
	def, err := s.Column.Def()
	if err != nil {
		return nil, err
	}
	return schema.Alter(s.Table).AddColumn(def), nil
}

// RemoveColumnStep drops a column.
type RemoveColumnStep struct {
	Table  string `mapstructure:"table"`
	Column string `mapstructure:"column"`
}

func (s *RemoveColumnStep) Op() string { return OpRemoveColumn }

func (s *RemoveColumnStep) Statement() (schema.Statement, error) {
	return schema.Alter(s.Table).DropColumn(s.Column), nil
}

// RenameColumnStep renames a column.
type RenameColumnStep struct {
	Table string `mapstructure:"table"`
	From  string `mapstructure:"from"`
	To    string `mapstructure:"to"`
}

func (s *RenameColumnStep) Op() string { return OpRenameColumn }

func (s *RenameColumnStep) Statement() (schema.Statement, error) {
	return schema.Alter(s.Table).RenameColumn(s.From, s.To), nil
}

// AddIndexStep creates an index.
type AddIndexStep struct {
	Table     string `mapstructure:"table"`
	IndexSpec `mapstructure:",squash"`
}

func (s *AddIndexStep) Op() string { return OpAddIndex }

func (s *AddIndexStep) Statement() (schema.Statement, error) {
	idx := schema.Index(s.Table).Name(s.Name).Col(s.Columns...)
	if s.Unique {
		idx.Unique()
	}
	if s.IfNotExists {
		idx.IfNotExists()
	}
	return idx, nil
}

// RemoveIndexStep drops an index.
type RemoveIndexStep struct {
	Table string `mapstructure:"table"`
	Name  string `mapstructure:"name"`
}

func (s *RemoveIndexStep) Op() string { return OpRemoveIndex }

func (s *RemoveIndexStep) Statement() (schema.Statement, error) {
	return schema.IndexDrop(s.Table, s.Name), nil
}

// AddForeignKeyStep adds a foreign key to an existing table.
type AddForeignKeyStep struct {
	Table          string `mapstructure:"table"`
	ForeignKeySpec `mapstructure:",squash"`
}

func (s *AddForeignKeyStep) Op() string { return OpAddForeignKey }

func (s *AddForeignKeyStep) Statement() (schema.Statement, error) {
	fk := schema.ForeignKey(s.Table, s.References)
	s.apply(fk)
	return fk, nil
}

// RemoveForeignKeyStep drops a foreign key.
type RemoveForeignKeyStep struct {
	Table string `mapstructure:"table"`
	Name  string `mapstructure:"name"`
}

func (s *RemoveForeignKeyStep) Op() string { return OpRemoveForeignKey }

func (s *RemoveForeignKeyStep) Statement() (schema.Statement, error) {
	return schema.ForeignKeyDrop(s.Table, s.Name), nil
}

// RenameTableStep renames a table.
type RenameTableStep struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

func (s *RenameTableStep) Op() string { return OpRenameTable }

func (s *RenameTableStep) Statement() (schema.Statement, error) {
	return schema.TableRename(s.From, s.To), nil
}

// CreateEnumStep creates a native enumerated type.
type CreateEnumStep struct {
	Name   string   `mapstructure:"name"`
	Values []string `mapstructure:"values"`
}

func (s *CreateEnumStep) Op() string { return OpCreateEnum }

func (s *CreateEnumStep) Statement() (schema.Statement, error) {
	return schema.CreateType(s.Name, s.Values...), nil
}

// DropEnumStep drops a native enumerated type.
type DropEnumStep struct {
	Name     string `mapstructure:"name"`
	IfExists bool   `mapstructure:"if_exists"`
}

func (s *DropEnumStep) Op() string { return OpDropEnum }

func (s *DropEnumStep) Statement() (schema.Statement, error) {
	stmt := schema.DropType(s.Name)
	if s.IfExists {
		stmt.IfExists()
	}
	return stmt, nil
}

// RawStep runs SQL verbatim, optionally per dialect.
type RawStep struct {
	SQL      string `mapstructure:"sql"`
	Postgres string `mapstructure:"postgres"`
	SQLite   string `mapstructure:"sqlite"`
	MySQL    string `mapstructure:"mysql"`
}

func (s *RawStep) Op() string { return OpRaw }

func (s *RawStep) Statement() (schema.Statement, error) {
	return schema.Raw(s.SQL).Postgres(s.Postgres).SQLite(s.SQLite).MySQL(s.MySQL), nil
}

// -----------------------------------------------------------------------------
// Decoding
// -----------------------------------------------------------------------------

func newStep(op string) (Step, error) {
	switch op {
	case OpCreateTable:
		return &CreateTableStep{}, nil
	case OpDropTable:
		return &DropTableStep{}, nil
	case OpAddColumn:
		return &AddColumnStep{}, nil
	case OpRemoveColumn:
		return &RemoveColumnStep{}, nil
	case OpRenameColumn:
		return &RenameColumnStep{}, nil
	case OpAddIndex:
		return &AddIndexStep{}, nil
	case OpRemoveIndex:
		return &RemoveIndexStep{}, nil
	case OpAddForeignKey:
		return &AddForeignKeyStep{}, nil
	case OpRemoveForeignKey:
		return &RemoveForeignKeyStep{}, nil
	case OpRenameTable:
		return &RenameTableStep{}, nil
	case OpCreateEnum:
		return &CreateEnumStep{}, nil
	case OpDropEnum:
		return &DropEnumStep{}, nil
	case OpRaw:
		return &RawStep{}, nil
	}
	e := alerr.New(alerr.ErrPlanInvalid, "unknown step op").
		With("op", op)
	if help := alerr.DidYouMean(op, ops); help != "" {
		e = e.WithHelp(help)
	}
	return nil, e
}

// decodeStep turns one generic step map into its typed step. Unknown keys
// are rejected so typos surface at load time.
func decodeStep(m map[string]any) (Step, error) {
	op, _ := m["op"].(string)
	if op == "" {
		return nil, alerr.New(alerr.ErrPlanInvalid, "step is missing op")
	}
	step, err := newStep(op)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(m))
	for k, v := range m {
		if k != "op" {
			fields[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           step,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "invalid step fields")
	}
	return step, nil
}
