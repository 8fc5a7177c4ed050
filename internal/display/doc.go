// Package display renders heterogeneous records as aligned plain-text tables.
//
// A Record is an ordered set of key/value pairs. Records of one table do not
// need to share the same keys: the column set is the union of every key seen,
// ordered by first appearance, and a key first seen after a neighbour is
// spliced in right after that neighbour so related columns stay adjacent.
//
// # Single tables
//
//	display.RenderTable(os.Stdout, []*display.Record{
//	    display.NewRecord(display.F("A", "x"), display.F("B", "22")),
//	    display.NewRecord(display.F("B", "1"), display.F("C", "yyy")),
//	}, true)
//
// prints
//
//	A   B    C
//	x   22
//	    1    yyy
//
// followed by a blank line.
//
// # Grouped tables
//
// RenderGroup prints several tables (one per trimester, one per day, ...)
// with a single column order and widths shared by every table of the group,
// so column boundaries line up when the tables are printed one after the other.
//
// Widths are measured in terminal cells, never truncated, and never smaller
// than the column header. Only nil values render as empty cells; 0 and false
// are printed literally.
package display
