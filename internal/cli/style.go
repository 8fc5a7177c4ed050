package cli

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// HeaderStyle returns the style of table headers written to w: cyan on a
// terminal, none otherwise.
func HeaderStyle(w io.Writer) func(string) string {
	if !IsTerminal(w) {
		return nil
	}
	return func(s string) string {
		return text.FgCyan.Sprint(s)
	}
}

// Colorize applies colour to s when w is a terminal.
func Colorize(w io.Writer, color text.Color, s string) string {
	if !IsTerminal(w) {
		return s
	}
	return color.Sprint(s)
}
