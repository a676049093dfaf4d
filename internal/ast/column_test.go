package ast

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/types"
)

// -----------------------------------------------------------------------------
// Identifier Tests
// -----------------------------------------------------------------------------

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"snake case", "user_id", false},
		{"dashes are quoted", "idx-users-title", false},
		{"mixed case", "UserId", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 64), true},
		{"nul byte", "bad\x00name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !alerr.Is(err, alerr.ErrInvalidIdentifier) {
				t.Errorf("expected %s, got %v", alerr.ErrInvalidIdentifier, err)
			}
		})
	}
}

func TestNormalizeFKAction(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"cascade", "CASCADE", false},
		{" set null ", "SET NULL", false},
		{"NO ACTION", "NO ACTION", false},
		{"explode", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeFKAction(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeFKAction(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateSQLExpression(t *testing.T) {
	ok := []string{
		"CURRENT_TIMESTAMP",
		"gen_random_uuid()",
		"price > 0",
		"(lower(hex(randomblob(16))))",
		// keywords and separators inside string literals are data
		"kind IN ('insert','update')",
		"note <> 'a;b' AND note <> '--'",
		"label <> 'it''s a DROP'",
	}
	for _, expr := range ok {
		if err := ValidateSQLExpression(expr); err != nil {
			t.Errorf("ValidateSQLExpression(%q) = %v", expr, err)
		}
	}
	bad := []string{
		"1; DROP TABLE users",
		"1 -- comment",
		"(SELECT 1 UNION SELECT 2)",
		"kind IN ('insert'); DELETE FROM users",
		"label = 'it''s' OR 1=1; DROP TABLE users",
		"kind = 'open DROP TABLE users",
	}
	for _, expr := range bad {
		if err := ValidateSQLExpression(expr); err == nil {
			t.Errorf("ValidateSQLExpression(%q) should fail", expr)
		}
	}
}

// -----------------------------------------------------------------------------
// ColumnDef Tests
// -----------------------------------------------------------------------------

func TestColumnDefValidate(t *testing.T) {
	tests := []struct {
		name     string
		col      ColumnDef
		wantCode alerr.Code
	}{
		{"plain string", ColumnDef{Name: "title", Type: types.String, Length: 255}, ""},
		{"nullable text", ColumnDef{Name: "body", Type: types.Text, Nullable: true}, ""},
		{"pk auto", ColumnDef{Name: "id", Type: types.PkAuto, PrimaryKey: true, AutoIncrement: true}, ""},
		{"decimal", ColumnDef{Name: "price", Type: types.Decimal, Precision: 10, Scale: 2}, ""},
		{"interval", ColumnDef{Name: "span", Type: types.Interval, IntervalFields: "DAY TO SECOND", Precision: 3}, ""},
		{"array", ColumnDef{Name: "tags", Type: types.Array, Elem: types.String}, ""},
		{"enum", ColumnDef{Name: "status", Type: types.Enum, EnumName: "status_enum"}, ""},

		{"missing name", ColumnDef{Type: types.Text}, alerr.ErrSchemaInvalid},
		{"unknown kind", ColumnDef{Name: "x", Type: "strng"}, alerr.ErrInvalidType},
		{"length on integer", ColumnDef{Name: "n", Type: types.Integer, Length: 4}, alerr.ErrInvalidModifier},
		{"scale above precision", ColumnDef{Name: "p", Type: types.Decimal, Precision: 2, Scale: 4}, alerr.ErrInvalidModifier},
		{"nullable pk", ColumnDef{Name: "id", Type: types.PkUUID, PrimaryKey: true, Nullable: true}, alerr.ErrInvalidModifier},
		{"unique boolean", ColumnDef{Name: "flag", Type: types.Boolean, Unique: true}, alerr.ErrInvalidModifier},
		{"default json", ColumnDef{Name: "doc", Type: types.JSON, Default: "{}", DefaultSet: true}, alerr.ErrInvalidModifier},
		{"bad interval", ColumnDef{Name: "span", Type: types.Interval, IntervalFields: "WEEK"}, alerr.ErrInvalidModifier},
		{"array of json", ColumnDef{Name: "docs", Type: types.Array, Elem: types.JSON}, alerr.ErrInvalidModifier},
		{"enum without name", ColumnDef{Name: "status", Type: types.Enum}, alerr.ErrInvalidModifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.col.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !alerr.Is(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestColumnDefDefaults(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		value   any
		wantErr bool
	}{
		{"string literal", types.String, "draft", false},
		{"integer literal", types.Integer, 42, false},
		{"integer from string", types.Integer, "42", true},
		{"float accepts int", types.Double, 3, false},
		{"float literal", types.Float, 1.5, false},
		{"decimal value", types.Decimal, decimal.RequireFromString("9.99"), false},
		{"money float", types.Money, 12.5, false},
		{"boolean", types.Boolean, true, false},
		{"boolean from int", types.Boolean, 1, true},
		{"date text", types.Date, "2024-01-01", false},
		{"uuid expr", types.UUID, Expr("gen_random_uuid()"), false},
		{"timestamp expr", types.TimestampTz, Expr(CurrentTimestamp), false},
		{"dangerous expr", types.Text, Expr("''; DROP TABLE users"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := ColumnDef{Name: "c", Type: tt.kind, Default: tt.value, DefaultSet: true}
			err := col.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnumDefaultMustBeAValue(t *testing.T) {
	col := ColumnDef{
		Name:       "status",
		Type:       types.Enum,
		EnumName:   "status_enum",
		Values:     []string{"pending", "active"},
		Default:    "archived",
		DefaultSet: true,
	}
	if err := col.Validate(); !alerr.Is(err, alerr.ErrTypeMismatchVal) {
		t.Fatalf("expected %s, got %v", alerr.ErrTypeMismatchVal, err)
	}

	col.Default = "active"
	if err := col.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHasDefault(t *testing.T) {
	if (&ColumnDef{Default: "x"}).HasDefault() {
		t.Error("Default without DefaultSet should not count")
	}
	if !(&ColumnDef{Default: 0, DefaultSet: true}).HasDefault() {
		t.Error("zero default should count")
	}
}

// -----------------------------------------------------------------------------
// Constraint Definition Tests
// -----------------------------------------------------------------------------

func TestForeignKeyDefValidate(t *testing.T) {
	tests := []struct {
		name    string
		fk      ForeignKeyDef
		wantErr bool
	}{
		{"valid", ForeignKeyDef{Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}, OnDelete: "cascade"}, false},
		{"no columns", ForeignKeyDef{RefTable: "users", RefColumns: []string{"id"}}, true},
		{"no ref table", ForeignKeyDef{Columns: []string{"user_id"}, RefColumns: []string{"id"}}, true},
		{"count mismatch", ForeignKeyDef{Columns: []string{"a", "b"}, RefTable: "t", RefColumns: []string{"id"}}, true},
		{"bad action", ForeignKeyDef{Columns: []string{"a"}, RefTable: "t", RefColumns: []string{"id"}, OnUpdate: "boom"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fk.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckDefValidate(t *testing.T) {
	if err := (&CheckDef{Expression: "price >= 0"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&CheckDef{Name: "chk"}).Validate(); err == nil {
		t.Error("expected error for empty expression")
	}
}
