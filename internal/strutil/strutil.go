// Package strutil holds the string helpers shared by the schema layers:
// snake_case normalization and the naming scheme for generated constraints.
package strutil

import (
	"strings"
	"unicode"
)

// -----------------------------------------------------------------------------
// Case Conversion
// -----------------------------------------------------------------------------

// ToSnakeCase converts a string to snake_case.
// Examples: bigInteger -> big_integer, JSONBinary -> json_binary, pk-auto -> pk_auto
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			// A boundary sits before an upper-case letter that follows a lower-case
			// one, or that starts a new word after an acronym ("JSONBinary").
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// -----------------------------------------------------------------------------
// Constraint Naming
// -----------------------------------------------------------------------------

func joinName(prefix, table string, cols []string) string {
	parts := make([]string, 0, len(cols)+2)
	parts = append(parts, prefix, table)
	parts = append(parts, cols...)
	return strings.Join(parts, "_")
}

// IndexName returns the generated name for an index.
// Example: IndexName("users", "first_name", "last_name") -> "idx_users_first_name_last_name"
func IndexName(table string, cols ...string) string {
	return joinName("idx", table, cols)
}

// UniqueName returns the generated name for a unique constraint.
func UniqueName(table string, cols ...string) string {
	return joinName("uq", table, cols)
}

// ForeignKeyName returns the generated name for a foreign key.
// Example: ForeignKeyName("posts", "user_id") -> "fk_posts_user_id"
func ForeignKeyName(table string, cols ...string) string {
	return joinName("fk", table, cols)
}

// CheckName returns the generated name for a CHECK constraint on a column.
func CheckName(table, column string) string {
	return joinName("chk", table, []string{column})
}

// -----------------------------------------------------------------------------
// References
// -----------------------------------------------------------------------------

// ParseRef splits "table.column" into its parts. A bare name is a table.
func ParseRef(ref string) (table, column string) {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// -----------------------------------------------------------------------------
// Formatting
// -----------------------------------------------------------------------------

// Indent indents each non-empty line of text with the given number of spaces.
func Indent(text string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
