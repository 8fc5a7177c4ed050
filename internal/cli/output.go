package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"myges/internal/display"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatTable formats output as aligned plain tables
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON formats output as compact JSON data
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML data converted from JSON
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidOutputFormats contains all valid output format values.
var ValidOutputFormats = []OutputFormat{
	OutputFormatTable,
	OutputFormatJSON,
	OutputFormatYAML,
}

// ValidateOutputFormat validates that the given format string is a supported output format.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}

// NothingToDisplay is printed instead of an empty table.
const NothingToDisplay = "Nothing to display."

// WriteRaw writes data as compact JSON or as YAML.
func WriteRaw(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		out, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}

// Output prints command results according to the output flags.
type Output struct {
	w       io.Writer
	flags   OutputFlags
	printer *display.Printer
}

// NewOutput creates an output on w. Headers are coloured when w is a
// terminal.
func NewOutput(w io.Writer, flags OutputFlags) *Output {
	return &Output{
		w:       w,
		flags:   flags,
		printer: display.NewPrinter(w, display.WithHeaderStyle(HeaderStyle(w))),
	}
}

// Structured reports whether results are printed as data instead of tables.
func (o *Output) Structured() bool {
	return o.flags.Format() != OutputFormatTable
}

// Data prints the API data in the selected structured format.
func (o *Output) Data(data any) error {
	return WriteRaw(o.w, o.flags.Format(), data)
}

// Table prints one table, or NothingToDisplay when it has no records.
func (o *Output) Table(records []*display.Record) error {
	if len(records) == 0 {
		return o.Message(NothingToDisplay)
	}
	return o.printer.Table(records, !o.flags.NoHeaders)
}

// KeyValue prints records without a header line, regardless of flags.
func (o *Output) KeyValue(records []*display.Record) error {
	if len(records) == 0 {
		return o.Message(NothingToDisplay)
	}
	return o.printer.Table(records, false)
}

// Group prints tables sharing their layout, or NothingToDisplay when no
// table has records.
func (o *Output) Group(tables [][]*display.Record) error {
	if empty(tables) {
		return o.Message(NothingToDisplay)
	}
	return o.printer.Group(tables, !o.flags.NoHeaders)
}

// Tables prints each table with its own layout.
func (o *Output) Tables(tables [][]*display.Record) error {
	if empty(tables) {
		return o.Message(NothingToDisplay)
	}
	for _, records := range tables {
		if err := o.printer.Table(records, !o.flags.NoHeaders); err != nil {
			return err
		}
	}
	return nil
}

// Message prints a line of text.
func (o *Output) Message(format string, args ...any) error {
	_, err := fmt.Fprintf(o.w, format+"\n", args...)
	return err
}

func empty(tables [][]*display.Record) bool {
	for _, records := range tables {
		if len(records) > 0 {
			return false
		}
	}
	return true
}
