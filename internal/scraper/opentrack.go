package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
)

// parseOpenTrack reads the performances table from an OpenTrack profile.
// The table is the first one with a row naming both "Event" and "Perf";
// its first two rows are the year and the column headers.
func parseOpenTrack(r io.Reader, targets []string) (pb.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var perf *goquery.Selection
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		table.Find("tr").EachWithBreak(func(j int, row *goquery.Selection) bool {
			text := row.Text()
			if strings.Contains(text, "Event") && strings.Contains(text, "Perf") {
				perf = table
			}
			return perf == nil
		})
		return perf == nil
	})
	if perf == nil {
		return nil, fmt.Errorf("performances table: %w", ErrNotFound)
	}

	wanted := make(map[string]bool, len(targets))
	for _, d := range targets {
		wanted[d] = true
	}

	t := pb.Table{}
	perf.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i < 2 {
			return
		}
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}

		distance := strings.TrimSpace(cells.Eq(0).Text())
		if !wanted[distance] {
			return
		}
		m, ok := mark.Parse(cells.Eq(1).Text())
		if !ok {
			return
		}
		t.Keep(event.NewKey(distance, event.Outdoor), m)
	})

	return t, nil
}
