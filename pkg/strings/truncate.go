// Package strings holds text helpers shared by the CLI renderers.
package strings

import (
	"strings"
	"unicode/utf8"
)

// DefaultCellWidth is the widest value a table cell shows before it is cut.
const DefaultCellWidth = 60

const ellipsis = "..."

// Cell flattens s onto one line, collapsing runs of whitespace, and cuts it
// to at most width runes with a trailing "...". Widths below 4 are treated
// as 4.
func Cell(s string, width int) string {
	width = max(width, len(ellipsis)+1)

	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-len(ellipsis)]) + ellipsis
}
