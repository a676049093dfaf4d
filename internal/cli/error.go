package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/schemakit/internal/alerr"
)

// Locator is implemented by errors that know where in the input they arose,
// such as a failing plan step.
type Locator interface {
	Location() string
}

// keys rendered on their own lines rather than as context details
var reservedKeys = map[string]bool{
	"file":  true,
	"helps": true,
	"notes": true,
	"sql":   true,
}

// FormatError formats err in Cargo style. Coded errors show their code,
// context, help and notes; anything else is printed as a plain message.
// A Locator anywhere in the chain adds a "-->" line.
//
//	error[E6003]: add foreign key is not supported on sqlite
//	  --> plans/users.yaml: step 5 (add_foreign_key)
//	   |
//	   = table: posts
//	help: recreate the table with the foreign key inline
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	var ae *alerr.Error
	coded := errors.As(err, &ae)

	b.WriteString(Error("error"))
	if coded {
		b.WriteString("[")
		b.WriteString(Code(string(ae.GetCode())))
		b.WriteString("]: ")
		b.WriteString(ae.GetMessage())
	} else {
		b.WriteString(": ")
		b.WriteString(causeMessage(err))
	}
	b.WriteString("\n")

	location := ""
	var loc Locator
	if errors.As(err, &loc) {
		location = loc.Location()
	} else if coded {
		location, _ = ae.GetContext()["file"].(string)
	}
	if location != "" {
		b.WriteString("  ")
		b.WriteString(Arrow())
		b.WriteString(" ")
		b.WriteString(Header(location))
		b.WriteString("\n")
	}

	if !coded {
		return b.String()
	}

	ctx := ae.GetContext()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if !reservedKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "   = %s: %v\n", k, ctx[k])
		}
	}
	if sql, ok := ctx["sql"].(string); ok && sql != "" {
		b.WriteString("   = sql: ")
		b.WriteString(SQL(sql))
		b.WriteString("\n")
	}

	for _, note := range ae.Notes() {
		b.WriteString(FormatNote(note))
	}
	for _, help := range ae.Helps() {
		b.WriteString(FormatHelp(help))
	}
	if cause := ae.GetCause(); cause != nil {
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(cause.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// causeMessage drops the location prefix a Locator adds to its message so
// it is not printed twice.
func causeMessage(err error) string {
	msg := err.Error()
	var loc Locator
	if errors.As(err, &loc) {
		msg = strings.TrimPrefix(msg, loc.Location()+": ")
	}
	return msg
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	return Warning("warning") + ": " + msg + "\n"
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}

// FormatHelp formats a help message.
func FormatHelp(msg string) string {
	return Help("help") + ": " + msg + "\n"
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}
