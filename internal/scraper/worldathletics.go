package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/status"
)

// stateMarker identifies the script holding the athlete page state
const stateMarker = "singleCompetitor"

// nationalRecordLabel is the record label World Athletics uses for a
// national record
const nationalRecordLabel = "NR"

var metresPattern = regexp.MustCompile(`(\d+)\s*(?:metre|meter)`)

type pageState struct {
	Props struct {
		PageProps struct {
			Competitor struct {
				PersonalBests struct {
					Results []personalBest `json:"results"`
				} `json:"personalBests"`
			} `json:"competitor"`
		} `json:"pageProps"`
	} `json:"props"`
}

type personalBest struct {
	Mark       string   `json:"mark"`
	Discipline string   `json:"discipline"`
	Records    []string `json:"records"`
}

// parseWorldAthletics extracts personal bests from the page state embedded
// in a World Athletics athlete page.
func parseWorldAthletics(r io.Reader, targets []string) (pb.Table, status.Flags, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var (
		state pageState
		found bool
	)
	doc.Find("script").EachWithBreak(func(i int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(text, stateMarker) {
			return true
		}
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return true
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &state); err != nil {
			return true
		}
		found = true
		return false
	})
	if !found {
		return nil, nil, fmt.Errorf("athlete page state: %w", ErrNotFound)
	}

	t := pb.Table{}
	flags := status.Flags{}
	for _, res := range state.Props.PageProps.Competitor.PersonalBests.Results {
		key, ok := disciplineKey(res.Discipline, targets)
		if !ok {
			continue
		}
		m, ok := mark.Parse(res.Mark)
		if !ok {
			continue
		}
		t.Keep(key, m)

		for _, label := range res.Records {
			if label == nationalRecordLabel {
				flags[key] = true
			}
		}
	}

	return t, flags, nil
}

// disciplineKey maps a discipline name such as "200 Metres Short Track" to
// an event key. Relays have no key.
func disciplineKey(discipline string, targets []string) (event.Key, bool) {
	lower := strings.ToLower(discipline)
	if strings.Contains(lower, "relay") {
		return "", false
	}

	variant := event.Outdoor
	switch {
	case strings.Contains(lower, "short track"):
		variant = event.ShortTrack
	case strings.Contains(lower, "indoor"):
		variant = event.Indoor
	}

	for _, d := range targets {
		if containsDistance(lower, d+" metre") {
			return event.NewKey(d, variant), true
		}
	}

	if m := metresPattern.FindStringSubmatch(lower); m != nil {
		return event.NewKey(m[1], variant), true
	}
	return "", false
}

// containsDistance reports whether s contains phrase not preceded by a
// digit, so "100 metre" does not match inside "1100 metres".
func containsDistance(s, phrase string) bool {
	for offset := 0; ; {
		i := strings.Index(s[offset:], phrase)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 || s[i-1] < '0' || s[i-1] > '9' {
			return true
		}
		offset = i + 1
	}
}
