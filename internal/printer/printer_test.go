package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	buf := &bytes.Buffer{}
	return New(buf), buf
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *Printer)
		want  string
	}{
		{"success", func(p *Printer) { p.Success("README updated: %s", "README.md") }, "✓ README updated: README.md\n"},
		{"warning", func(p *Printer) { p.Warning("%d sources failed", 2) }, "⚠️  2 sources failed\n"},
		{"step", func(p *Printer) { p.Step("Dry run") }, "→ Dry run\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newTestPrinter(t)
			tt.print(p)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
		wantOutput  []string
	}{
		{
			name:       "no suggestions",
			wantOutput: []string{"README not updated\n\n", "markers missing\n"},
		},
		{
			name:        "single suggestion",
			suggestions: []string{"Add the markers"},
			wantOutput:  []string{"\nAdd the markers\n"},
		},
		{
			name:        "multiple suggestions",
			suggestions: []string{"Add the markers", "Pass --readme"},
			wantOutput:  []string{"Either:\n", "  1. Add the markers\n", "  2. Pass --readme\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newTestPrinter(t)

			err := p.Error("README not updated", "markers missing", tt.suggestions)
			if err == nil || err.Error() != "README not updated" {
				t.Errorf("Error() = %v, want title only", err)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
