package sqlgen

import (
	"testing"
)

// -----------------------------------------------------------------------------
// Dialect Tests
// -----------------------------------------------------------------------------

func TestDialectString(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{Postgres, "postgres"},
		{SQLite, "sqlite"},
		{MySQL, "mysql"},
		{Dialect(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.dialect.String(); got != tt.want {
				t.Errorf("Dialect.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Quoting Tests
// -----------------------------------------------------------------------------

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		ident   string
		want    string
	}{
		{"postgres_simple", Postgres, "users", `"users"`},
		{"postgres_escape", Postgres, `user"name`, `"user""name"`},
		{"sqlite_dashes", SQLite, "idx-users-title", `"idx-users-title"`},
		{"sqlite_escape", SQLite, `user"name`, `"user""name"`},
		{"mysql_simple", MySQL, "users", "`users`"},
		{"mysql_escape", MySQL, "user`name", "`user``name`"},
		{"unknown_defaults_to_double_quotes", Dialect(99), "users", `"users"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteIdent(tt.dialect, tt.ident); got != tt.want {
				t.Errorf("QuoteIdent(%v, %q) = %q, want %q", tt.dialect, tt.ident, got, tt.want)
			}
		})
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"draft", "'draft'"},
		{"it's", "'it''s'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := QuoteString(tt.input); got != tt.want {
			t.Errorf("QuoteString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if got, want := QuoteStrings("a", "b'c"), "'a', 'b''c'"; got != want {
		t.Errorf("QuoteStrings() = %q, want %q", got, want)
	}
}

func TestColumns(t *testing.T) {
	if got, want := Columns(Postgres, "a", "b"), `"a", "b"`; got != want {
		t.Errorf("Columns(Postgres) = %q, want %q", got, want)
	}
	if got, want := Columns(MySQL, "a", "b"), "`a`, `b`"; got != want {
		t.Errorf("Columns(MySQL) = %q, want %q", got, want)
	}
	if got := Columns(SQLite); got != "" {
		t.Errorf("Columns() = %q, want empty", got)
	}
}

// -----------------------------------------------------------------------------
// Placeholders Tests
// -----------------------------------------------------------------------------

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		n       int
		want    string
	}{
		{"postgres_0", Postgres, 0, ""},
		{"postgres_3", Postgres, 3, "$1, $2, $3"},
		{"sqlite_2", SQLite, 2, "?, ?"},
		{"mysql_1", MySQL, 1, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Placeholders(tt.dialect, tt.n); got != tt.want {
				t.Errorf("Placeholders(%v, %d) = %q, want %q", tt.dialect, tt.n, got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Builder Tests
// -----------------------------------------------------------------------------

func TestBuilderStatements(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) *Builder
		want  string
	}{
		{
			"create table if not exists",
			func(b *Builder) *Builder { return b.CreateTable("users", true) },
			`CREATE TABLE IF NOT EXISTS "users"`,
		},
		{
			"drop table",
			func(b *Builder) *Builder { return b.DropTable("users", false) },
			`DROP TABLE "users"`,
		},
		{
			"add column",
			func(b *Builder) *Builder {
				return b.AlterTable("users").AddColumn("bio", "TEXT").Null()
			},
			`ALTER TABLE "users" ADD COLUMN "bio" TEXT NULL`,
		},
		{
			"drop column",
			func(b *Builder) *Builder { return b.AlterTable("users").DropColumn("bio") },
			`ALTER TABLE "users" DROP COLUMN "bio"`,
		},
		{
			"rename column",
			func(b *Builder) *Builder { return b.AlterTable("users").RenameColumn("old_title", "new_title") },
			`ALTER TABLE "users" RENAME COLUMN "old_title" TO "new_title"`,
		},
		{
			"rename table",
			func(b *Builder) *Builder { return b.AlterTable("users").RenameTo("customers") },
			`ALTER TABLE "users" RENAME TO "customers"`,
		},
		{
			"column modifiers",
			func(b *Builder) *Builder {
				return b.Column("id", "INTEGER").PrimaryKey().Keyword("AUTOINCREMENT").Keyword("")
			},
			`"id" INTEGER PRIMARY KEY AUTOINCREMENT`,
		},
		{
			"default and unique",
			func(b *Builder) *Builder {
				return b.Column("email", "VARCHAR(255)").NotNull().Unique().Default("'x'")
			},
			`"email" VARCHAR(255) NOT NULL UNIQUE DEFAULT 'x'`,
		},
		{
			"foreign key constraint",
			func(b *Builder) *Builder {
				return b.Constraint("fk_posts_user_id").ForeignKey("user_id").
					References("users", "id").OnDelete("CASCADE").OnUpdate("")
			},
			`CONSTRAINT "fk_posts_user_id" FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
		{
			"check",
			func(b *Builder) *Builder { return b.Constraint("chk").Check("price >= 0") },
			`CONSTRAINT "chk" CHECK (price >= 0)`,
		},
		{
			"parens and commas",
			func(b *Builder) *Builder {
				return b.Raw("T").OpenParen().Raw("a").Comma().Raw("b").CloseParen().Space()
			},
			"T (a, b) ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build(New(Postgres)).String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestBuilderMySQLQuoting(t *testing.T) {
	got := New(MySQL).AlterTable("users").DropColumn("bio").String()
	if want := "ALTER TABLE `users` DROP COLUMN `bio`"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBuilderReset(t *testing.T) {
	b := New(SQLite)
	b.DropTable("a", true)
	if b.Dialect() != SQLite {
		t.Errorf("Dialect() = %v, want sqlite", b.Dialect())
	}
	b.Reset().DropTable("b", true)
	if got, want := b.String(), `DROP TABLE IF EXISTS "b"`; got != want {
		t.Errorf("after reset got %q, want %q", got, want)
	}
}

func TestList(t *testing.T) {
	if got := List("a", "b", "c"); got != "a, b, c" {
		t.Errorf("List() = %q", got)
	}
}
