// Package strings holds text helpers shared by the output code.
package strings

import (
	"strings"
)

// CellMaxLen is the widest free text cell printed in tables.
const CellMaxLen = 60

// ellipsis marks truncated text.
const ellipsis = "..."

// Cell flattens s to a single line and shortens it to at most maxLen runes,
// ending with "..." when something was cut. Runs of whitespace, newlines
// included, become one space. maxLen is raised to leave room for at least
// one rune before the ellipsis.
func Cell(s string, maxLen int) string {
	if maxLen <= len(ellipsis) {
		maxLen = len(ellipsis) + 1
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
