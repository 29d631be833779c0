// Package render writes a lint report as human-readable text.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/phobologic/noelse/internal/model"
)

// Printer formats diagnostics, one per line, followed by a summary.
type Printer struct {
	pos     *color.Color
	rule    *color.Color
	fixable *color.Color
	summary *color.Color
}

// NewPrinter returns a Printer that colours its output when colored is set.
func NewPrinter(colored bool) *Printer {
	p := &Printer{
		pos:     color.New(color.Bold),
		rule:    color.New(color.FgHiBlack),
		fixable: color.New(color.FgGreen),
		summary: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.pos, p.rule, p.fixable, p.summary} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Diagnostic writes a single `path:line:col: message [rule]` line.
func (p *Printer) Diagnostic(w io.Writer, d *model.Diagnostic) error {
	line := fmt.Sprintf("%s: %s %s",
		p.pos.Sprintf("%s:%d:%d", d.Path, d.Line, d.Column),
		d.Message,
		p.rule.Sprintf("[%s]", d.Rule))
	if d.Fixable() {
		line += " " + p.fixable.Sprint("(fixable)")
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Report writes every diagnostic of rep and, when there are any, a summary.
// A clean report produces no output.
func (p *Printer) Report(w io.Writer, rep *model.Report) error {
	for i := range rep.Files {
		for j := range rep.Files[i].Diagnostics {
			if err := p.Diagnostic(w, &rep.Files[i].Diagnostics[j]); err != nil {
				return err
			}
		}
	}
	problems, fixable := rep.Counts()
	if problems == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, p.summary.Sprint(Summary(problems, fixable)))
	return err
}

// Summary is the closing line of a report.
func Summary(problems, fixable int) string {
	s := plural(problems, "problem")
	if fixable > 0 {
		s += fmt.Sprintf(" (%d fixable with --fix)", fixable)
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
