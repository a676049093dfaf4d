// Package alerr provides the coded errors raised by schemakit's own validation and
// rendering layers. Errors returned by a database driver are never wrapped in an
// alerr error; they reach the caller exactly as the driver produced them.
package alerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number}.
type Code string

// Error codes organized by category.
const (
	// Schema errors (E1xxx) - malformed statements and column definitions
	ErrSchemaInvalid     Code = "E1001" // Statement is malformed or incomplete
	ErrInvalidIdentifier Code = "E1002" // Identifier does not match allowed pattern
	ErrDuplicateColumn   Code = "E1003" // Column declared twice in one statement

	// Type errors (E2xxx) - column kinds and their modifiers
	ErrInvalidType     Code = "E2005" // Kind is unknown or misconfigured
	ErrInvalidModifier Code = "E2006" // Modifier not supported by the kind
	ErrTypeMismatchVal Code = "E2008" // Default value does not fit the kind

	// Plan errors (E3xxx) - declarative step files
	ErrPlanInvalid  Code = "E3001" // Plan file is malformed
	ErrPlanNotFound Code = "E3002" // Plan file does not exist
	ErrDataLoss     Code = "E3004" // A step would drop stored data

	// Config errors (E5xxx)
	ErrConfigInvalid Code = "E5001" // Configuration file or value is invalid

	// Catalog errors (E6xxx) - introspection and dialect capabilities
	ErrIntrospection    Code = "E6001" // Catalog query failed
	EUnsupportedDialect Code = "E6003" // Dialect not supported for operation

	// Internal errors (E9xxx)
	EInternalError Code = "E9001" // Internal error
)

// Error is the structured error type used across schemakit.
type Error struct {
	code    Code
	message string
	context map[string]any
	cause   error
}

// Error returns the formatted error string.
// Format:
//
//	[E2005] unknown column kind
//	  column: title
//	  kind: strng
func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.code, e.message)

	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %v", k, e.context[k])
		}
	}

	if e.cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", e.cause)
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// GetCause returns the underlying cause error.
func (e *Error) GetCause() error {
	return e.cause
}

// With adds a key-value pair to the error context.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithTable adds table context to the error.
func (e *Error) WithTable(table string) *Error {
	return e.With("table", table)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithSQL adds SQL statement context to the error.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// WithDialect adds the backend name to the error.
func (e *Error) WithDialect(name string) *Error {
	return e.With("dialect", name)
}

// WithHelp adds a help suggestion (displayed as "help: ...").
func (e *Error) WithHelp(help string) *Error {
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// WithNote adds a note (displayed as "note: ...").
func (e *Error) WithNote(note string) *Error {
	notes, _ := e.context["notes"].([]string)
	notes = append(notes, note)
	return e.With("notes", notes)
}

// Notes returns all notes attached to this error.
func (e *Error) Notes() []string {
	notes, _ := e.context["notes"].([]string)
	return notes
}

// Helps returns all help suggestions attached to this error.
func (e *Error) Helps() []string {
	helps, _ := e.context["helps"].([]string)
	return helps
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
		context: make(map[string]any),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
	}
}

// GetErrorCode extracts the error code from an error chain.
// Returns an empty code if the chain holds no *Error.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// WrapCatalog wraps a failed catalog query. Catalog lookups are this module's own
// queries, so unlike executed DDL they carry a code.
func WrapCatalog(err error, op string, table string) *Error {
	e := Wrap(ErrIntrospection, err, "failed to "+op)
	if table != "" {
		e.WithTable(table)
	}
	return e
}

// Unsupported reports an operation the named dialect cannot express.
func Unsupported(dialect, op string) *Error {
	return New(EUnsupportedDialect, op+" is not supported").
		WithDialect(dialect)
}
