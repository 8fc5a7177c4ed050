package display

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// gutter separates two adjacent columns.
const gutter = "   "

// Layout is the column order and width used to print one or more tables.
type Layout struct {
	Columns []string
	Widths  map[string]int
}

// Option configures a Printer.
type Option func(*Printer)

// WithHeaderStyle decorates header cells (for instance with terminal
// colours). The style is applied after padding so alignment only depends on
// the undecorated text.
func WithHeaderStyle(style func(string) string) Option {
	return func(p *Printer) {
		p.headerStyle = style
	}
}

// Printer writes tables to a single output.
type Printer struct {
	out         io.Writer
	headerStyle func(string) string
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	p := &Printer{out: out}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RenderTable prints records as a single table on w.
func RenderTable(w io.Writer, records []*Record, showHeader bool) error {
	return NewPrinter(w).Table(records, showHeader)
}

// RenderGroup prints tables sharing one column order and one set of widths.
func RenderGroup(w io.Writer, tables [][]*Record, showHeader bool) error {
	return NewPrinter(w).Group(tables, showHeader)
}

// Table prints one table. Its columns come from its own records.
func (p *Printer) Table(records []*Record, showHeader bool) error {
	columns := Columns(records)
	return p.Render(records, Layout{
		Columns: columns,
		Widths:  ColumnWidths(records, columns),
	}, showHeader)
}

// Group prints several tables with a shared layout, see GroupLayout.
func (p *Printer) Group(tables [][]*Record, showHeader bool) error {
	layout := GroupLayout(tables)
	for _, records := range tables {
		if err := p.Render(records, layout, showHeader); err != nil {
			return err
		}
	}
	return nil
}

// GroupLayout computes the layout shared by a group of tables: the column
// order merges the order of every table, and each column is as wide as its
// widest occurrence in any table.
func GroupLayout(tables [][]*Record) Layout {
	sets := make([][]string, 0, len(tables))
	for _, records := range tables {
		sets = append(sets, Columns(records))
	}
	columns := ResolveColumns(sets...)

	widths := make(map[string]int, len(columns))
	for _, records := range tables {
		mergeWidths(widths, ColumnWidths(records, columns))
	}

	return Layout{Columns: columns, Widths: widths}
}

// Render prints records with the given layout: an optional header line, one
// line per record, then a blank line. Keys missing from a record print as
// padding. Records are never modified.
func (p *Printer) Render(records []*Record, layout Layout, showHeader bool) error {
	bw := bufio.NewWriter(p.out)

	if showHeader {
		cells := make([]string, len(layout.Columns))
		for i, col := range layout.Columns {
			cells[i] = pad(col, layout.Widths[col])
			if p.headerStyle != nil {
				cells[i] = p.headerStyle(cells[i])
			}
		}
		writeLine(bw, cells)
	}

	for _, r := range records {
		cells := make([]string, len(layout.Columns))
		for i, col := range layout.Columns {
			var text string
			if v, ok := r.Get(col); ok {
				text = Stringify(v)
			}
			cells[i] = pad(text, layout.Widths[col])
		}
		writeLine(bw, cells)
	}

	bw.WriteString("\n")
	return bw.Flush()
}

func writeLine(bw *bufio.Writer, cells []string) {
	bw.WriteString(strings.Join(cells, gutter))
	bw.WriteString("\n")
}

// pad right-pads s with spaces up to width terminal cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
