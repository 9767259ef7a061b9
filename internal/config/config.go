// Package config defines the tracker configuration and its curated tables.
//
// Values are layered by Load: built-in defaults, then an optional YAML file,
// then PB_TRACKER_* environment variables. The curated national records and
// the fallback personal bests live here so they can be corrected without a
// rebuild.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/status"
)

// MinRankingDelay is the smallest pause allowed between ranking lookups
const MinRankingDelay = 400 * time.Millisecond

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Athlete        Athlete        `koanf:"athlete"`
	OpenTrack      OpenTrack      `koanf:"opentrack"`
	WorldAthletics Site           `koanf:"world_athletics"`
	AthleticsMalta AthleticsMalta `koanf:"athletics_malta"`
	Fetch          Fetch          `koanf:"fetch"`
	Events         Events         `koanf:"events"`
	Output         Output         `koanf:"output"`

	// NationalRecords maps a base event ("200m") to the curated record.
	NationalRecords map[string]NationalRecord `koanf:"national_records"`

	// Fallback holds known personal bests merged last on every run.
	Fallback map[string]string `koanf:"fallback"`
}

// Athlete identifies whose results are tracked
type Athlete struct {
	// Name is matched case-insensitively against ranking tables.
	Name string `koanf:"name"`
}

// Site is a scraped page plus the homepage credited in the widget footer
type Site struct {
	URL  string `koanf:"url"`
	Home string `koanf:"home"`
}

// OpenTrack adds the manual override variable to the profile page
type OpenTrack struct {
	URL  string `koanf:"url"`
	Home string `koanf:"home"`

	// OverrideEnv names the variable holding a JSON event->time object that
	// replaces the OpenTrack scrape when set.
	OverrideEnv string `koanf:"override_env"`
}

// AthleticsMalta configures the national records and all-time list pages
type AthleticsMalta struct {
	RecordsURL   string        `koanf:"records_url"`
	RankingsURL  string        `koanf:"rankings_url"`
	Home         string        `koanf:"home"`
	RankingDelay time.Duration `koanf:"ranking_delay"`
}

// Fetch tunes the fetch strategy chain
type Fetch struct {
	Timeout           time.Duration `koanf:"timeout"`
	Attempts          int           `koanf:"attempts"`
	RetryMinDelay     time.Duration `koanf:"retry_min_delay"`
	RetryMaxDelay     time.Duration `koanf:"retry_max_delay"`
	Browser           bool          `koanf:"browser"`
	BrowserPath       string        `koanf:"browser_path"`
	NavigationTimeout time.Duration `koanf:"navigation_timeout"`
	RenderDelay       time.Duration `koanf:"render_delay"`
}

// Events lists tracked distances and the display order
type Events struct {
	Targets []string `koanf:"targets"`
	Order   []string `koanf:"order"`
}

// Output names the files a run writes
type Output struct {
	Readme      string `koanf:"readme"`
	Dir         string `koanf:"dir"`
	WidgetFile  string `koanf:"widget_file"`
	ReportFile  string `koanf:"report_file"`
	MetricsFile string `koanf:"metrics_file"`
}

// NationalRecord is one curated record entry
type NationalRecord struct {
	Time  string `koanf:"time"`
	Date  string `koanf:"date"`
	Label string `koanf:"label"`
}

// New returns the built-in defaults.
func New() *Config {
	targets := make([]string, len(event.DefaultTargets))
	copy(targets, event.DefaultTargets)
	order := make([]string, 0, len(event.DefaultOrder))
	for _, k := range event.DefaultOrder {
		order = append(order, string(k))
	}

	return &Config{
		LogLevel: "info",
		Athlete: Athlete{
			Name: "Graham Pellegrini",
		},
		OpenTrack: OpenTrack{
			URL:         "https://malta.opentrack.run/en-gb/a/f77598db-2a2a-4597-a0d1-0ee86eda6147/",
			Home:        "https://malta.opentrack.run/",
			OverrideEnv: "OPENTRACK_PBS",
		},
		WorldAthletics: Site{
			URL:  "https://worldathletics.org/athletes/malta/graham-pellegrini-14962811",
			Home: "https://worldathletics.org/",
		},
		AthleticsMalta: AthleticsMalta{
			RecordsURL:   "https://www.athleticsmalta.org/records/national-records/",
			RankingsURL:  "https://www.athleticsmalta.org/records/all-time-lists/",
			Home:         "https://www.athleticsmalta.org/",
			RankingDelay: 500 * time.Millisecond,
		},
		Fetch: Fetch{
			Timeout:           15 * time.Second,
			Attempts:          3,
			RetryMinDelay:     2 * time.Second,
			RetryMaxDelay:     5 * time.Second,
			Browser:           true,
			NavigationTimeout: 60 * time.Second,
			RenderDelay:       5 * time.Second,
		},
		Events: Events{
			Targets: targets,
			Order:   order,
		},
		Output: Output{
			Readme:     "README.md",
			Dir:        ".",
			WidgetFile: "pb_widget.md",
		},
		NationalRecords: map[string]NationalRecord{
			"200m": {Time: "21.18s", Date: "2023-04-01", Label: "Malta National Record"},
			"300m": {Time: "34.42s", Date: "2023-02-01", Label: "U20 National Record"},
		},
		Fallback: map[string]string{
			"60m":     "6.04s",
			"60m SH":  "6.08s",
			"100m":    "10.93s",
			"200m":    "21.18s",
			"300m":    "34.76s",
			"400m":    "46.83s",
			"200m SH": "21.83s",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if c.Athlete.Name == "" {
		return errors.New("athlete.name must not be empty")
	}
	if c.Output.Readme == "" {
		return errors.New("output.readme must not be empty")
	}
	if c.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch.attempts must be at least 1, got %d", c.Fetch.Attempts)
	}
	if c.Fetch.RetryMinDelay < 0 || c.Fetch.RetryMinDelay > c.Fetch.RetryMaxDelay {
		return fmt.Errorf("fetch.retry_min_delay (%s) must be between 0 and fetch.retry_max_delay (%s)",
			c.Fetch.RetryMinDelay, c.Fetch.RetryMaxDelay)
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}
	if c.AthleticsMalta.RankingDelay < MinRankingDelay {
		return fmt.Errorf("athletics_malta.ranking_delay must be at least %s, got %s",
			MinRankingDelay, c.AthleticsMalta.RankingDelay)
	}
	if len(c.Events.Targets) == 0 {
		return errors.New("events.targets must not be empty")
	}
	for _, d := range c.Events.Targets {
		if _, ok := event.Parse(d + "m"); !ok {
			return fmt.Errorf("events.targets: %q is not a distance in metres", d)
		}
	}
	if _, err := c.Order(); err != nil {
		return err
	}
	if _, err := c.CuratedRecords(); err != nil {
		return err
	}
	if _, err := c.FallbackTable(); err != nil {
		return err
	}
	return nil
}

// Order returns the canonical display order as keys
func (c *Config) Order() ([]event.Key, error) {
	order := make([]event.Key, 0, len(c.Events.Order))
	for _, s := range c.Events.Order {
		k, ok := event.Parse(s)
		if !ok || k.Variant() != event.Outdoor {
			return nil, fmt.Errorf("events.order: %q is not a base event", s)
		}
		order = append(order, k)
	}
	return order, nil
}

// CuratedRecords converts the national records table
func (c *Config) CuratedRecords() (map[event.Key]status.CuratedRecord, error) {
	out := make(map[event.Key]status.CuratedRecord, len(c.NationalRecords))
	for k, rec := range c.NationalRecords {
		key, ok := event.Parse(k)
		if !ok || key.Variant() != event.Outdoor {
			return nil, fmt.Errorf("national_records: %q is not a base event", k)
		}
		m, ok := mark.Parse(rec.Time)
		if !ok {
			return nil, fmt.Errorf("national_records.%s: invalid time %q", k, rec.Time)
		}
		out[key] = status.CuratedRecord{Mark: m, Date: rec.Date, Label: rec.Label}
	}
	return out, nil
}

// FallbackTable converts the fallback personal bests. It is never empty for
// a validated config, which is what keeps the README populated when every
// source fails.
func (c *Config) FallbackTable() (pb.Table, error) {
	t, rejected := pb.FromStrings(c.Fallback)
	if len(rejected) > 0 {
		return nil, fmt.Errorf("fallback: invalid entries %v", rejected)
	}
	if len(t) == 0 {
		return nil, errors.New("fallback must contain at least one personal best")
	}
	return t, nil
}
