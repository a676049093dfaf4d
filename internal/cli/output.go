package cli

import (
	"fmt"
	"strings"
)

// Table renders rows in aligned columns.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow adds a row, padding missing cells with "".
func (t *Table) AddRow(cells ...string) {
	for len(cells) < len(t.headers) {
		cells = append(cells, "")
	}
	for i, cell := range cells {
		if i < len(t.widths) && len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table.
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		var line strings.Builder
		for i, cell := range cells {
			if i >= len(t.widths) {
				break
			}
			if i > 0 {
				line.WriteString("  ")
			}
			// pad before styling so escape codes do not count toward width
			line.WriteString(style(padRight(cell, t.widths[i])))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}

	writeRow(t.headers, Header)
	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep, Dim)
	for _, row := range t.rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// StepLine formats one applied plan step.
//
//	ok   3/7 add_column users
func StepLine(i, total int, ok bool, desc string) string {
	marker := Success("ok  ")
	if !ok {
		marker = Error("FAIL")
	}
	width := len(fmt.Sprint(total))
	return fmt.Sprintf("%s %*d/%d %s\n", marker, width, i, total, desc)
}

// FormatCount formats a count with singular/plural form.
func FormatCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
