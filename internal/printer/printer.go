// Package printer writes the human-facing status lines of a run: the README
// confirmation, degraded source warnings and fatal errors with remediation.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Printer writes colored messages to one writer
type Printer struct {
	w io.Writer
}

// New creates a Printer. A nil writer means stderr.
func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	return &Printer{w: w}
}

// Success prints a message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a message in yellow with a warning prefix
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.w, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step prints a progress message
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.w, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints a title, an explanation and suggested fixes, and returns an
// error carrying only the title.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	red.Fprintf(p.w, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(p.w, "%s\n", explanation)
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(p.w, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(p.w, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(p.w, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(p.w, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return fmt.Errorf("%s", title)
}
