package engine

import (
	"testing"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/testutil"
	"github.com/hlop3z/schemakit/internal/types"
)

func table(name string, refs ...string) *ast.CreateTable {
	ct := &ast.CreateTable{
		Name:    name,
		Columns: []*ast.ColumnDef{{Name: "id", Type: types.PkAuto, PrimaryKey: true, AutoIncrement: true}},
	}
	for _, ref := range refs {
		ct.ForeignKeys = append(ct.ForeignKeys, &ast.ForeignKeyDef{
			Columns:    []string{ref + "_id"},
			RefTable:   ref,
			RefColumns: []string{"id"},
		})
	}
	return ct
}

func names(ops []ast.Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Table()
	}
	return out
}

func TestOrderCreates(t *testing.T) {
	tests := []struct {
		name string
		ops  []ast.Operation
		want []string
	}{
		{
			name: "empty",
			ops:  nil,
			want: []string{},
		},
		{
			name: "already ordered",
			ops:  []ast.Operation{table("users"), table("posts", "users")},
			want: []string{"users", "posts"},
		},
		{
			name: "dependent first",
			ops:  []ast.Operation{table("comments", "posts", "users"), table("posts", "users"), table("users")},
			want: []string{"users", "posts", "comments"},
		},
		{
			name: "independent tables keep order",
			ops:  []ast.Operation{table("zebra"), table("apple"), table("mango")},
			want: []string{"zebra", "apple", "mango"},
		},
		{
			name: "self reference",
			ops:  []ast.Operation{table("nodes", "nodes"), table("roots")},
			want: []string{"nodes", "roots"},
		},
		{
			name: "reference outside the run",
			ops:  []ast.Operation{table("posts", "users")},
			want: []string{"posts"},
		},
		{
			name: "runs are separate",
			ops: []ast.Operation{
				table("posts", "users"),
				&ast.DropTable{Name: "legacy"},
				table("users"),
			},
			want: []string{"posts", "legacy", "users"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderCreates(tt.ops)
			testutil.AssertNoError(t, err)
			gotNames := names(got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotNames, tt.want)
			}
			for i := range tt.want {
				testutil.AssertEqual(t, gotNames[i], tt.want[i])
			}
		})
	}
}

func TestOrderCreatesCycle(t *testing.T) {
	_, err := OrderCreates([]ast.Operation{table("a", "b"), table("b", "a"), table("c")})
	testutil.AssertError(t, err, alerr.ErrSchemaInvalid)
	testutil.AssertErrorContains(t, err, "a, b")
}
