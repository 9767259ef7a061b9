package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
)

var (
	relayLegPattern     = regexp.MustCompile(`\d+\s*x\s*\d+`)
	recordDistance      = regexp.MustCompile(`^(\d+)\s*(?:m|metres?|meters?)(?:\s+(?:short track|indoor))?$`)
	excludedDisciplines = []string{"relay", "hurdle", "walk"}
)

// Records table columns
const (
	recordMarkCell  = 1
	recordEventCell = 3
	recordMinCells  = 4
)

// All-time list columns
const (
	rankCell     = 0
	athleteCell  = 3
	rankingEvent = 6
	rankMinCells = 9
)

// parseRecords reads the national records table. The fastest mark per event
// is kept when an event is listed more than once.
func parseRecords(r io.Reader) (pb.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	t := pb.Table{}
	rows := 0
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < recordMinCells {
			return
		}
		rows++

		key, ok := recordKey(cells.Eq(recordEventCell).Text())
		if !ok {
			return
		}
		m, ok := mark.Parse(cells.Eq(recordMarkCell).Text())
		if !ok {
			return
		}
		t.Keep(key, m)
	})

	if rows == 0 {
		return nil, fmt.Errorf("records table: %w", ErrNotFound)
	}
	return t, nil
}

// recordKey maps a records page event name such as "200m" or
// "400 Metres Short Track" to an event key. The whole name must be a
// distance, optionally followed by "short track" or "indoor".
func recordKey(name string) (event.Key, bool) {
	lower := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	for _, ex := range excludedDisciplines {
		if strings.Contains(lower, ex) {
			return "", false
		}
	}
	if relayLegPattern.MatchString(lower) {
		return "", false
	}

	m := recordDistance.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}

	variant := event.Outdoor
	if strings.Contains(lower, "short track") || strings.Contains(lower, "indoor") {
		variant = event.ShortTrack
	}
	return event.NewKey(m[1], variant), true
}

// parsePosition scans an all-time list for the athlete's row in the given
// base event and returns its rank.
func parsePosition(r io.Reader, athlete string, base event.Key) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("parsing HTML: %w", err)
	}

	name := strings.ToLower(strings.TrimSpace(athlete))
	position := 0
	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td, th")
		if cells.Length() < rankMinCells {
			return true
		}
		if !strings.Contains(strings.ToLower(cells.Eq(athleteCell).Text()), name) {
			return true
		}
		if !strings.EqualFold(strings.TrimSpace(cells.Eq(rankingEvent).Text()), string(base)) {
			return true
		}
		rank, err := strconv.Atoi(strings.TrimSpace(cells.Eq(rankCell).Text()))
		if err != nil || rank < 1 {
			return true
		}
		position = rank
		return false
	})

	if position == 0 {
		return 0, fmt.Errorf("%s in all-time list: %w", athlete, ErrNotFound)
	}
	return position, nil
}
