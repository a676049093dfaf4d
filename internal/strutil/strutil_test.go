package strutil

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"string", "string"},
		{"bigInteger", "big_integer"},
		{"BigInteger", "big_integer"},
		{"JSONBinary", "json_binary"},
		{"PkUUID", "pk_uuid"},
		{"timestampTz", "timestamp_tz"},
		{"pk-auto", "pk_auto"},
		{"var bit", "var_bit"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToSnakeCase(tt.input); got != tt.want {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConstraintNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"index single", IndexName("users", "email"), "idx_users_email"},
		{"index multi", IndexName("users", "first_name", "last_name"), "idx_users_first_name_last_name"},
		{"unique", UniqueName("users", "email"), "uq_users_email"},
		{"foreign key", ForeignKeyName("posts", "user_id"), "fk_posts_user_id"},
		{"check", CheckName("orders", "status"), "chk_orders_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantTable string
		wantCol   string
	}{
		{"users.id", "users", "id"},
		{"users", "users", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			table, col := ParseRef(tt.ref)
			if table != tt.wantTable || col != tt.wantCol {
				t.Errorf("ParseRef(%q) = (%q, %q), want (%q, %q)", tt.ref, table, col, tt.wantTable, tt.wantCol)
			}
		})
	}
}

func TestIndent(t *testing.T) {
	got := Indent("a\n\nb", 2)
	if want := "  a\n\n  b"; got != want {
		t.Errorf("Indent() = %q, want %q", got, want)
	}
}
