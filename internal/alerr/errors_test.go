package alerr

import (
	"errors"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Constructor Tests
// -----------------------------------------------------------------------------

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    Code
		message string
	}{
		{"schema error", ErrSchemaInvalid, "table name is required"},
		{"identifier error", ErrInvalidIdentifier, "identifier is not valid"},
		{"type error", ErrInvalidType, "unknown column kind"},
		{"plan error", ErrPlanInvalid, "step has no operation"},
		{"dialect error", EUnsupportedDialect, "drop foreign key is not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)
			if err.GetCode() != tt.code {
				t.Errorf("code = %v, want %v", err.GetCode(), tt.code)
			}
			if err.GetMessage() != tt.message {
				t.Errorf("message = %v, want %v", err.GetMessage(), tt.message)
			}
			if err.GetCause() != nil {
				t.Error("expected nil cause for New()")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wrap existing error", func(t *testing.T) {
		cause := errors.New("no such table: users")
		err := Wrap(ErrIntrospection, cause, "failed to list columns")

		if err.GetCode() != ErrIntrospection {
			t.Errorf("code = %v, want %v", err.GetCode(), ErrIntrospection)
		}
		if err.GetCause() != cause {
			t.Error("cause should be the wrapped error")
		}
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find the cause")
		}
	})

	t.Run("wrap nil behaves like New", func(t *testing.T) {
		err := Wrap(ErrPlanNotFound, nil, "failed")
		if err.GetCause() != nil {
			t.Error("expected nil cause")
		}
		if err.GetCode() != ErrPlanNotFound {
			t.Errorf("code = %v, want %v", err.GetCode(), ErrPlanNotFound)
		}
	})
}

// -----------------------------------------------------------------------------
// Context Builder Tests
// -----------------------------------------------------------------------------

func TestContextBuilders(t *testing.T) {
	err := New(ErrInvalidType, "unknown column kind").
		WithTable("users").
		WithColumn("title").
		WithSQL(`ALTER TABLE "users" ADD COLUMN "title" TEXT`).
		WithDialect("sqlite").
		With("kind", "strng")

	ctx := err.GetContext()
	want := map[string]any{
		"table":   "users",
		"column":  "title",
		"sql":     `ALTER TABLE "users" ADD COLUMN "title" TEXT`,
		"dialect": "sqlite",
		"kind":    "strng",
	}
	for k, v := range want {
		if ctx[k] != v {
			t.Errorf("%s = %v, want %v", k, ctx[k], v)
		}
	}
}

func TestNotesAndHelps(t *testing.T) {
	err := New(EUnsupportedDialect, "add foreign key is not supported").
		WithNote("sqlite cannot alter constraints").
		WithNote("declare the key in CREATE TABLE").
		WithHelp("use TableCreateStatement.ForeignKey")

	if got := len(err.Notes()); got != 2 {
		t.Errorf("len(Notes()) = %d, want 2", got)
	}
	if got := err.Helps(); len(got) != 1 || got[0] != "use TableCreateStatement.ForeignKey" {
		t.Errorf("Helps() = %v", got)
	}
}

// -----------------------------------------------------------------------------
// Error Output Format Tests
// -----------------------------------------------------------------------------

func TestErrorFormat(t *testing.T) {
	t.Run("code prefix", func(t *testing.T) {
		errStr := New(ErrInvalidIdentifier, "invalid table name").Error()
		if !strings.HasPrefix(errStr, "[E1002] invalid table name") {
			t.Errorf("unexpected format: %s", errStr)
		}
	})

	t.Run("cause is rendered", func(t *testing.T) {
		errStr := Wrap(ErrIntrospection, errors.New("timeout"), "failed to list tables").Error()
		if !strings.Contains(errStr, "cause: timeout") {
			t.Errorf("error should contain cause, got: %s", errStr)
		}
	})

	t.Run("context keys are sorted", func(t *testing.T) {
		errStr := New(ErrSchemaInvalid, "test").
			With("zebra", 1).
			With("alpha", 2).
			With("middle", 3).
			Error()

		a := strings.Index(errStr, "alpha:")
		m := strings.Index(errStr, "middle:")
		z := strings.Index(errStr, "zebra:")
		if a == -1 || m == -1 || z == -1 {
			t.Fatalf("expected all keys to be present, got: %s", errStr)
		}
		if !(a < m && m < z) {
			t.Errorf("context keys should be sorted, got: %s", errStr)
		}
	})
}

// -----------------------------------------------------------------------------
// Code Lookup Tests
// -----------------------------------------------------------------------------

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct match", New(ErrInvalidType, "x"), ErrInvalidType, true},
		{"different code", New(ErrInvalidType, "x"), ErrSchemaInvalid, false},
		{"wrapped by fmt", wrapf(New(ErrDataLoss, "x")), ErrDataLoss, true},
		{"plain error", errors.New("plain"), ErrSchemaInvalid, false},
		{"nil", nil, ErrSchemaInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsIsCompatibility(t *testing.T) {
	err := New(ErrSchemaInvalid, "first")
	if !errors.Is(err, New(ErrSchemaInvalid, "second")) {
		t.Error("errors.Is should match errors sharing a code")
	}
	if errors.Is(err, New(ErrInvalidType, "other")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestUnsupported(t *testing.T) {
	err := Unsupported("mysql", "create enum type")
	if err.GetCode() != EUnsupportedDialect {
		t.Errorf("code = %v, want %v", err.GetCode(), EUnsupportedDialect)
	}
	if err.GetContext()["dialect"] != "mysql" {
		t.Errorf("dialect = %v, want mysql", err.GetContext()["dialect"])
	}
	if !strings.Contains(err.Error(), "create enum type is not supported") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestWrapCatalog(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapCatalog(cause, "check table", "users")
	if err.GetCode() != ErrIntrospection {
		t.Errorf("code = %v, want %v", err.GetCode(), ErrIntrospection)
	}
	if err.GetContext()["table"] != "users" {
		t.Errorf("table = %v, want users", err.GetContext()["table"])
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable")
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "outer: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func wrapf(err error) error { return wrapped{err} }
