//go:build integration

package schema

import (
	"context"
	"testing"

	"github.com/hlop3z/schemakit/internal/testutil"
)

func TestPostgresEnums(t *testing.T) {
	ctx := context.Background()
	_, url := testutil.SetupPostgresWithURL(t)

	for _, driver := range []string{DriverPQ, DriverPgx} {
		t.Run(driver, func(t *testing.T) {
			m, err := New(WithDatabaseURL(url), WithDriver(driver))
			testutil.Must(t, err)
			defer m.Close()

			name := testutil.UniqueName("mood")
			exists, err := EnumTypeExists(ctx, m, name)
			testutil.AssertNoError(t, err)
			testutil.AssertFalse(t, exists, "type should not exist yet")

			testutil.AssertNoError(t, EnsureEnumType(ctx, m, name, "happy", "sad"))
			// second call is a no-op
			testutil.AssertNoError(t, EnsureEnumType(ctx, m, name, "happy", "sad"))

			exists, err = EnumTypeExists(ctx, m, name)
			testutil.AssertNoError(t, err)
			testutil.AssertTrue(t, exists, "type should exist")

			table := testutil.UniqueName("people")
			testutil.AssertNoError(t, CreateTable(ctx, m, table, func(t *TableCreateStatement) {
				t.Column("id", PkAuto())
				t.Column("mood", Enum(name, "happy", "sad").WithDefault("happy"))
			}))
			testutil.AssertNoError(t, DropTable(ctx, m, table))
			testutil.AssertNoError(t, m.Apply(ctx, DropType(name)))

			exists, err = EnumTypeExists(ctx, m, name)
			testutil.AssertNoError(t, err)
			testutil.AssertFalse(t, exists, "type should be gone")
		})
	}
}

func TestPostgresLifecycle(t *testing.T) {
	ctx := context.Background()
	_, url := testutil.SetupPostgresWithURL(t)

	m, err := New(WithDatabaseURL(url))
	testutil.Must(t, err)
	defer m.Close()

	testutil.AssertNoError(t, m.Apply(ctx, TableAutoTz("users").Column("id", PkAuto()).Column("name", String())))
	testutil.AssertNoError(t, CreateTable(ctx, m, "posts", func(t *TableCreateStatement) {
		t.Column("id", PkAuto())
		t.Column("user_id", Integer())
	}))

	testutil.AssertNoError(t, AddForeignKey(ctx, m, "posts", "users", func(fk *ForeignKeyCreateStatement) {
		fk.Name("fk_posts_user").From("user_id").To("id").OnDelete("cascade")
	}))
	testutil.AssertNoError(t, RemoveForeignKey(ctx, m, "posts", "fk_posts_user"))

	testutil.AssertNoError(t, AddColumn(ctx, m, "users", String().Null().ToDef("old_title")))
	testutil.AssertNoError(t, RenameColumn(ctx, m, "users", "old_title", "new_title"))
	testutil.AssertNoError(t, RemoveColumn(ctx, m, "users", "new_title"))
	testutil.AssertNoError(t, RenameTable(ctx, m, "users", "customers"))

	ok, err := m.HasTable(ctx, "customers")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok, "customers should exist")

	info, err := m.Table(ctx, "customers")
	testutil.Must(t, err)
	testutil.AssertFalse(t, info.Column(CreatedAt).Nullable, "created_at should be NOT NULL")
}

func TestMySQLLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupMySQL(t)

	m, err := New(WithDB(db), WithDialect("mysql"))
	testutil.Must(t, err)

	exists, err := EnumTypeExists(ctx, m, "mood")
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, exists, "mysql never reports native enums")

	testutil.AssertNoError(t, CreateTable(ctx, m, "users", func(t *TableCreateStatement) {
		t.Column("id", PkAuto())
		t.Column("name", StringLen(80))
		t.Column("mood", Enum("mood", "happy", "sad").Null())
	}))
	testutil.AssertNoError(t, CreateTable(ctx, m, "posts", func(t *TableCreateStatement) {
		t.Column("id", PkAuto())
		t.Column("user_id", Integer())
	}))

	testutil.AssertNoError(t, AddIndex(ctx, m, "users", func(i *IndexCreateStatement) {
		i.Name("idx-users-name").Col("name")
	}))
	testutil.AssertNoError(t, RemoveIndex(ctx, m, "users", "idx-users-name"))

	testutil.AssertNoError(t, AddForeignKey(ctx, m, "posts", "users", func(fk *ForeignKeyCreateStatement) {
		fk.Name("fk_posts_user").From("user_id").To("id")
	}))
	testutil.AssertNoError(t, RemoveForeignKey(ctx, m, "posts", "fk_posts_user"))

	testutil.AssertNoError(t, RenameTable(ctx, m, "users", "customers"))
	ok, err := m.HasTable(ctx, "customers")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok, "customers should exist")
}
