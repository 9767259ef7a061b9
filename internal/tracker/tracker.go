package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grahampellegrini/pb-tracker/internal/config"
	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/logger"
	"github.com/grahampellegrini/pb-tracker/internal/metrics"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/scraper"
	"github.com/grahampellegrini/pb-tracker/internal/status"
	"github.com/grahampellegrini/pb-tracker/internal/storage"
	"github.com/grahampellegrini/pb-tracker/internal/widget"
)

// Source names used in reports, logs and metrics
const (
	SourceOpenTrack      = "opentrack"
	SourceWorldAthletics = "world_athletics"
	SourceAthleticsMalta = "athletics_malta"
)

// Sources is what the pipeline needs from the scrapers
type Sources interface {
	OpenTrack(ctx context.Context) (pb.Table, error)
	WorldAthletics(ctx context.Context) (pb.Table, status.Flags, error)
	Records(ctx context.Context) (pb.Table, error)
	Position(ctx context.Context, key event.Key) (int, error)
}

// SourceReport summarises what one source contributed
type SourceReport struct {
	Name   string `json:"name"`
	Events int    `json:"events"`
	Error  string `json:"error,omitempty"`
}

// Contributed reports whether the source added any data to the run
func (r SourceReport) Contributed() bool {
	return r.Events > 0
}

// Result is the typed output of every pipeline stage
type Result struct {
	RunID      string               `json:"run_id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Sources    []SourceReport       `json:"sources"`
	OpenTrack  pb.Table             `json:"opentrack"`
	World      pb.Table             `json:"world_athletics"`
	Flags      status.Flags         `json:"record_flags"`
	Records    pb.Table             `json:"national_records"`
	Positions  status.Positions     `json:"positions"`
	Merged     pb.Table             `json:"merged"`
	Statuses   map[event.Key]string `json:"statuses"`
	Rows       []widget.Row         `json:"rows"`
	Widget     string               `json:"-"`
}

// Options configures a Tracker. Zero values get defaults.
type Options struct {
	RunID        string
	SkipRankings bool
	Store        *storage.Storage
	Metrics      *metrics.Recorder
	Logger       *logger.Logger
	Now          func() time.Time
}

// Tracker runs the pipeline for one athlete
type Tracker struct {
	cfg          *config.Config
	sources      Sources
	runID        string
	skipRankings bool
	store        *storage.Storage
	metrics      *metrics.Recorder
	log          *logger.Logger
	now          func() time.Time
	sleep        func(context.Context, time.Duration) error

	order    []event.Key
	curated  map[event.Key]status.CuratedRecord
	fallback pb.Table
}

// New creates a Tracker from a validated config
func New(cfg *config.Config, sources Sources, opts Options) (*Tracker, error) {
	order, err := cfg.Order()
	if err != nil {
		return nil, err
	}
	curated, err := cfg.CuratedRecords()
	if err != nil {
		return nil, err
	}
	fallback, err := cfg.FallbackTable()
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		cfg:          cfg,
		sources:      sources,
		runID:        opts.RunID,
		skipRankings: opts.SkipRankings,
		store:        opts.Store,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		now:          opts.Now,
		sleep:        sleep,
		order:        order,
		curated:      curated,
		fallback:     fallback,
	}

	if t.runID == "" {
		t.runID = uuid.NewString()
	}
	if t.store == nil {
		if t.store, err = storage.New(cfg.Output.Dir); err != nil {
			return nil, err
		}
	}
	if t.metrics == nil {
		t.metrics = metrics.New()
	}
	if t.log == nil {
		t.log = logger.Default()
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t, nil
}

// RunID identifies this run in logs and reports
func (t *Tracker) RunID() string {
	return t.runID
}

// Run scrapes, merges, annotates and renders. Source failures are logged and
// recorded in the result; the only errors returned are context errors.
func (t *Tracker) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     t.runID,
		StartedAt: t.now().UTC(),
		Positions: status.Positions{},
	}

	ot, err := t.sources.OpenTrack(ctx)
	res.OpenTrack = ot
	t.report(res, SourceOpenTrack, len(ot), err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	world, flags, err := t.sources.WorldAthletics(ctx)
	res.World, res.Flags = world, flags
	t.report(res, SourceWorldAthletics, len(world), err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := t.sources.Records(ctx)
	res.Records = records
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Merged = pb.Merge(ot, world, t.fallback)
	t.log.Info("Merged personal bests", logger.Fields{
		"events":   len(res.Merged),
		"fallback": len(t.fallback),
	})

	in := status.Inputs{
		Flags:     res.Flags,
		Curated:   t.curated,
		Records:   res.Records,
		Positions: res.Positions,
	}

	if !t.skipRankings {
		if err := t.lookupPositions(ctx, res, in); err != nil {
			return nil, err
		}
	}
	t.report(res, SourceAthleticsMalta, len(records)+len(res.Positions), err)

	res.Statuses = status.Annotate(res.Merged, in)

	wi := widget.Input{
		Table:    res.Merged,
		Statuses: res.Statuses,
		Order:    t.order,
		Sources:  t.credits(res.Sources),
		Now:      t.now(),
	}
	res.Rows = widget.Rows(wi)
	res.Widget = widget.Render(wi)
	res.FinishedAt = t.now().UTC()

	t.metrics.PersonalBests(res.Merged)
	t.metrics.Statuses(res.Statuses)
	t.metrics.Finished(res.FinishedAt)

	return res, nil
}

// lookupPositions queries the all-time lists for merged events that are not
// already national records, pausing between requests.
func (t *Tracker) lookupPositions(ctx context.Context, res *Result, in status.Inputs) error {
	delay := t.cfg.AthleticsMalta.RankingDelay
	queried := 0

	for _, key := range res.Merged.Keys() {
		if status.For(key, res.Merged[key], in) == status.NationalRecord {
			continue
		}
		if queried > 0 {
			if err := t.sleep(ctx, delay); err != nil {
				return err
			}
		}
		queried++

		pos, err := t.sources.Position(ctx, key)
		switch {
		case err == nil:
			res.Positions[key] = pos
			t.log.Info("Found all-time position", logger.Fields{"event": string(key), "position": pos})
		case errors.Is(err, scraper.ErrNotFound):
			t.log.Debug("Not in all-time list", logger.Fields{"event": string(key)})
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			t.log.Warn("All-time position lookup failed", logger.Fields{
				"event": string(key),
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (t *Tracker) report(res *Result, name string, events int, err error) {
	r := SourceReport{Name: name, Events: events}
	if err != nil {
		r.Error = err.Error()
		t.log.Warn("Source failed, continuing without it", logger.Fields{
			"source": name,
			"error":  err.Error(),
		})
	} else {
		t.log.Info("Source fetched", logger.Fields{
			"source": name,
			"events": events,
		})
	}
	res.Sources = append(res.Sources, r)
	t.metrics.Source(name, events, r.Contributed())
}

// credits lists the sites that contributed data, in pipeline order
func (t *Tracker) credits(reports []SourceReport) []widget.Source {
	sites := map[string]widget.Source{
		SourceOpenTrack:      {Name: "OpenTrack", URL: t.cfg.OpenTrack.Home},
		SourceWorldAthletics: {Name: "World Athletics", URL: t.cfg.WorldAthletics.Home},
		SourceAthleticsMalta: {Name: "Athletics Malta", URL: t.cfg.AthleticsMalta.Home},
	}

	var out []widget.Source
	for _, r := range reports {
		if r.Contributed() {
			out = append(out, sites[r.Name])
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Describe is a one-line summary for logs
func (r *Result) Describe() string {
	return fmt.Sprintf("%d events, %d national records", len(r.Merged), status.CountRecords(r.Statuses))
}
