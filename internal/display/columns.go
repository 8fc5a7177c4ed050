package display

import (
	"slices"

	"github.com/mattn/go-runewidth"
)

// ResolveColumns merges ordered key sets into one duplicate-free order.
//
// Keys are taken in the order they are first met. A key that is not yet
// known is inserted right after the key preceding it in its own set, so a
// column that only some records carry lands next to its neighbour instead of
// at the far end. The first key of a set, or a key whose predecessor is
// unknown, is appended.
func ResolveColumns(sets ...[]string) []string {
	var columns []string
	seen := make(map[string]struct{})

	for _, set := range sets {
		for i, key := range set {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			pos := -1
			if i > 0 {
				pos = slices.Index(columns, set[i-1])
			}
			if pos < 0 {
				columns = append(columns, key)
				continue
			}
			columns = slices.Insert(columns, pos+1, key)
		}
	}

	return columns
}

// Columns resolves the column order of a table from its own records.
func Columns(records []*Record) []string {
	sets := make([][]string, 0, len(records))
	for _, r := range records {
		sets = append(sets, r.Keys())
	}
	return ResolveColumns(sets...)
}

// ColumnWidths measures every column of a table. Each width is the widest of
// the header and every cell of that column; records without the key count
// as zero. When columns is nil the order is resolved from the records.
func ColumnWidths(records []*Record, columns []string) map[string]int {
	if columns == nil {
		columns = Columns(records)
	}

	widths := make(map[string]int, len(columns))
	for _, col := range columns {
		width := runewidth.StringWidth(col)
		for _, r := range records {
			v, ok := r.Get(col)
			if !ok {
				continue
			}
			width = max(width, runewidth.StringWidth(Stringify(v)))
		}
		widths[col] = width
	}

	return widths
}

// mergeWidths raises every width in dst to the matching width in src.
func mergeWidths(dst, src map[string]int) {
	for col, w := range src {
		if w > dst[col] {
			dst[col] = w
		}
	}
}
