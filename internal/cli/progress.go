package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Progress shows a spinner while work is in flight. The spinner is only
// drawn when the writer is a terminal.
type Progress struct {
	w     io.Writer
	quiet bool
	s     *spinner.Spinner
}

// NewProgress creates a progress indicator writing to w. Nothing is shown
// when quiet is set.
func NewProgress(w io.Writer, quiet bool) *Progress {
	return &Progress{w: w, quiet: quiet}
}

// Start shows the spinner with msg.
func (p *Progress) Start(msg string) {
	if p.quiet || p.s != nil || !IsTerminal(p.w) {
		return
	}
	p.s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(p.w))
	p.s.Suffix = " " + msg
	p.s.Start()
}

// Update replaces the spinner message.
func (p *Progress) Update(msg string) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = " " + msg
	p.s.Unlock()
}

// Stop hides the spinner.
func (p *Progress) Stop() {
	if p.s == nil {
		return
	}
	p.s.Stop()
	p.s = nil
}
