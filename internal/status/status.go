// Package status decides the Status column of the widget: national record,
// all-time ranking position, or nothing notable.
package status

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
)

const (
	// NationalRecord is shown for record-equalling or record-breaking marks
	NationalRecord = "National Record"

	// None is shown when nothing distinguishes a mark
	None = "-"

	// RecordTolerance absorbs rounding between sources when comparing a mark
	// with a record. A mark up to this much slower still counts.
	RecordTolerance = 0.01
)

// Flags marks events a source explicitly labelled as national records
type Flags map[event.Key]bool

// Positions holds all-time list positions by event
type Positions map[event.Key]int

// CuratedRecord is a hand-maintained national record
type CuratedRecord struct {
	Mark  mark.Mark `json:"mark"`
	Date  string    `json:"date,omitempty"`
	Label string    `json:"label,omitempty"`
}

// Inputs gathers everything the annotator cross-references
type Inputs struct {
	Flags     Flags
	Curated   map[event.Key]CuratedRecord
	Records   pb.Table
	Positions Positions
}

// Annotate returns the status for every event in the table
func Annotate(table pb.Table, in Inputs) map[event.Key]string {
	out := make(map[event.Key]string, len(table))
	for key, m := range table {
		out[key] = For(key, m, in)
	}
	return out
}

// For decides the status of one event. Priority: source flag, curated
// record, scraped record, all-time position, none.
func For(key event.Key, m mark.Mark, in Inputs) string {
	base := key.Base()

	if in.Flags[key] || in.Flags[base] {
		return NationalRecord
	}

	if rec, ok := in.Curated[base]; ok && WithinRecord(m, rec.Mark) {
		return NationalRecord
	}

	if rec, ok := lookup(in.Records, key); ok && WithinRecord(m, rec) {
		return NationalRecord
	}

	if pos := in.Positions[key]; pos > 0 {
		return Ordinal(pos) + " All-Time"
	}

	return None
}

// WithinRecord reports whether m equals or beats record, allowing
// RecordTolerance. Comparison is in hundredths so 21.19 against a 21.18
// record is inside the tolerance regardless of float rounding.
func WithinRecord(m, record mark.Mark) bool {
	slack := int64(math.Round(RecordTolerance * 100))
	return m.Centiseconds() <= record.Centiseconds()+slack
}

// Ordinal formats a position: 1st, 2nd, 3rd, 4th, 11th, 21st
func Ordinal(n int) string {
	return humanize.Ordinal(n)
}

// CountRecords returns how many statuses are national records
func CountRecords(statuses map[event.Key]string) int {
	n := 0
	for _, s := range statuses {
		if s == NationalRecord {
			n++
		}
	}
	return n
}

// lookup finds the record for key, falling back to its base event
func lookup(t pb.Table, key event.Key) (mark.Mark, bool) {
	if m, ok := t[key]; ok {
		return m, true
	}
	m, ok := t[key.Base()]
	return m, ok
}
