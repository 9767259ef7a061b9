package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/grahampellegrini/pb-tracker/internal/config"
	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/fetch"
	"github.com/grahampellegrini/pb-tracker/internal/logger"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/status"
)

// ErrNotFound means a page was fetched but held none of the expected data
var ErrNotFound = errors.New("expected data not found in page")

// OverrideExample is shown when OpenTrack cannot be reached
const OverrideExample = `{"200m": "21.18s", "200m SH": "21.83s"}`

// Scraper reads the three athletics sources
type Scraper struct {
	cfg     *config.Config
	pages   fetch.Fetcher
	lookups fetch.Fetcher
	getenv  func(string) string
	log     *logger.Logger
}

// New creates a Scraper. Profile and records pages go through pages;
// the per-event ranking queries go through lookups.
func New(cfg *config.Config, pages, lookups fetch.Fetcher, log *logger.Logger) *Scraper {
	if log == nil {
		log = logger.Default()
	}
	return &Scraper{
		cfg:     cfg,
		pages:   pages,
		lookups: lookups,
		getenv:  os.Getenv,
		log:     log,
	}
}

// OpenTrack returns personal bests from the override variable when it holds
// valid JSON, otherwise from the OpenTrack profile page.
func (s *Scraper) OpenTrack(ctx context.Context) (pb.Table, error) {
	if t, ok := s.override(); ok {
		return t, nil
	}

	body, err := s.pages.Fetch(ctx, s.cfg.OpenTrack.URL)
	if err != nil {
		s.overrideTip()
		return nil, fmt.Errorf("opentrack: %w", err)
	}

	t, err := parseOpenTrack(bytes.NewReader(body), s.cfg.Events.Targets)
	if err != nil {
		s.overrideTip()
		return nil, fmt.Errorf("opentrack: %w", err)
	}
	return t, nil
}

func (s *Scraper) override() (pb.Table, bool) {
	name := s.cfg.OpenTrack.OverrideEnv
	if name == "" {
		return nil, false
	}
	raw := s.getenv(name)
	if raw == "" {
		return nil, false
	}

	var times map[string]string
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		s.log.Warn("Override is not a JSON object of event times, scraping instead", logger.Fields{
			"variable": name,
			"error":    err.Error(),
		})
		return nil, false
	}

	t, rejected := pb.FromStrings(times)
	if len(rejected) > 0 {
		s.log.Warn("Ignoring invalid override entries", logger.Fields{
			"variable": name,
			"entries":  rejected,
		})
	}
	s.log.Info("Using OpenTrack override", logger.Fields{
		"variable": name,
		"events":   len(t),
	})
	return t, true
}

func (s *Scraper) overrideTip() {
	s.log.Warn("OpenTrack could not be scraped", logger.Fields{
		"tip":     fmt.Sprintf("set %s to a JSON object of event times", s.cfg.OpenTrack.OverrideEnv),
		"example": fmt.Sprintf("%s='%s'", s.cfg.OpenTrack.OverrideEnv, OverrideExample),
	})
}

// WorldAthletics returns personal bests and the events World Athletics
// labels as national records.
func (s *Scraper) WorldAthletics(ctx context.Context) (pb.Table, status.Flags, error) {
	body, err := s.pages.Fetch(ctx, s.cfg.WorldAthletics.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("world athletics: %w", err)
	}

	t, flags, err := parseWorldAthletics(bytes.NewReader(body), s.cfg.Events.Targets)
	if err != nil {
		return nil, nil, fmt.Errorf("world athletics: %w", err)
	}
	return t, flags, nil
}

// Records returns the national records listed by Athletics Malta
func (s *Scraper) Records(ctx context.Context) (pb.Table, error) {
	body, err := s.pages.Fetch(ctx, s.cfg.AthleticsMalta.RecordsURL)
	if err != nil {
		return nil, fmt.Errorf("athletics malta records: %w", err)
	}

	t, err := parseRecords(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("athletics malta records: %w", err)
	}
	return t, nil
}

// Position returns the athlete's all-time list position for the event.
// It returns ErrNotFound when the athlete is not listed.
func (s *Scraper) Position(ctx context.Context, key event.Key) (int, error) {
	u, err := RankingURL(s.cfg.AthleticsMalta.RankingsURL, key)
	if err != nil {
		return 0, err
	}

	body, err := s.lookups.Fetch(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("ranking %s: %w", key, err)
	}

	pos, err := parsePosition(bytes.NewReader(body), s.cfg.Athlete.Name, key.Base())
	if err != nil {
		return 0, fmt.Errorf("ranking %s: %w", key, err)
	}
	return pos, nil
}

// RankingURL adds the event and game type filters to the all-time list URL
func RankingURL(base string, key event.Key) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing rankings url: %w", err)
	}

	gameType := "Outdoor"
	if key.IsIndoor() {
		gameType = "Indoor"
	}

	q := u.Query()
	q.Set("event", string(key.Base()))
	q.Set("gametype", gameType)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
