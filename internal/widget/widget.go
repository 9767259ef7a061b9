// Package widget renders the personal-best markdown table spliced into the
// README.
package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/status"
)

const (
	Title      = "### 🏃 Automatic Personal Best Tracker"
	DateLayout = "02 January 2006"
)

// Source is credited in the footer
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Input is everything needed to render the widget
type Input struct {
	Table    pb.Table
	Statuses map[event.Key]string
	Order    []event.Key
	Sources  []Source
	Now      time.Time
}

// Row is one rendered table line
type Row struct {
	Event  event.Key `json:"event"`
	PB     string    `json:"pb"`
	Status string    `json:"status"`
}

// Rows orders the table for display: canonical bases first, each followed
// by its variants in lexicographic order, then anything left over in
// lexicographic order
func Rows(in Input) []Row {
	rows := make([]Row, 0, len(in.Table))
	for _, k := range Order(in.Table, in.Order) {
		st, ok := in.Statuses[k]
		if !ok {
			st = status.None
		}
		rows = append(rows, Row{Event: k, PB: in.Table[k].Display, Status: st})
	}
	return rows
}

// Order returns the display order of the table keys
func Order(t pb.Table, order []event.Key) []event.Key {
	sorted := t.Keys()
	shown := make(map[event.Key]bool, len(t))
	out := make([]event.Key, 0, len(t))

	for _, base := range order {
		if _, ok := t[base]; ok && !shown[base] {
			out = append(out, base)
			shown[base] = true
		}
		for _, k := range sorted {
			if k.IsVariantOf(base) && !shown[k] {
				out = append(out, k)
				shown[k] = true
			}
		}
	}

	for _, k := range sorted {
		if !shown[k] {
			out = append(out, k)
			shown[k] = true
		}
	}
	return out
}

// Render produces the markdown widget
func Render(in Input) string {
	lines := []string{
		Title,
		"",
		"| Event | PB | Status |",
		"|-------|------|--------|",
	}

	for _, r := range Rows(in) {
		lines = append(lines, fmt.Sprintf("| %s | %s | %s |", r.Event, r.PB, r.Status))
	}

	lines = append(lines,
		"",
		"> _Last updated: "+in.Now.Format(DateLayout)+"_",
		"",
		"> _Sourced from "+credits(in.Sources)+"_",
	)

	return strings.Join(lines, "\n")
}

func credits(sources []Source) string {
	if len(sources) == 0 {
		return "curated baseline data"
	}

	links := make([]string, len(sources))
	for i, s := range sources {
		if s.URL == "" {
			links[i] = s.Name
			continue
		}
		links[i] = fmt.Sprintf("[%s](%s)", s.Name, s.URL)
	}

	if len(links) == 1 {
		return links[0]
	}
	return strings.Join(links[:len(links)-1], ", ") + " & " + links[len(links)-1]
}
