// Package metrics collects per-run Prometheus metrics and writes them in the
// node_exporter textfile format, for CI runners that scrape a directory
// rather than a listening endpoint.
package metrics

import (
	"fmt"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pb_tracker"

// Recorder holds the metrics of a single run on its own registry
type Recorder struct {
	registry *prometheus.Registry

	personalBest    *prometheus.GaugeVec
	sourceEvents    *prometheus.GaugeVec
	sourceUp        *prometheus.GaugeVec
	fetchDuration   *prometheus.HistogramVec
	nationalRecords prometheus.Gauge
	lastRun         prometheus.Gauge
}

// New creates a Recorder with a fresh registry
func New() *Recorder {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		personalBest: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "personal_best_seconds",
			Help:      "Merged personal best per event in seconds",
		}, []string{"event"}),
		sourceEvents: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_events",
			Help:      "Number of events each source contributed this run",
		}, []string{"source"}),
		sourceUp: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_up",
			Help:      "Whether the source returned data this run (1) or not (0)",
		}, []string{"source"}),
		fetchDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of page fetches by strategy",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"strategy"}),
		nationalRecords: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "national_records",
			Help:      "Number of events currently annotated as national records",
		}),
		lastRun: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
}

// ObserveFetch records one fetch strategy attempt. Its signature matches
// fetch.Observer.
func (r *Recorder) ObserveFetch(strategy string, elapsed time.Duration) {
	r.fetchDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// Source records the outcome of one source
func (r *Recorder) Source(name string, events int, up bool) {
	r.sourceEvents.WithLabelValues(name).Set(float64(events))
	v := 0.0
	if up {
		v = 1
	}
	r.sourceUp.WithLabelValues(name).Set(v)
}

// PersonalBests records the merged table
func (r *Recorder) PersonalBests(t pb.Table) {
	for k, m := range t {
		r.personalBest.WithLabelValues(string(k)).Set(m.Seconds)
	}
}

// Statuses records how many events hold a national record
func (r *Recorder) Statuses(statuses map[event.Key]string) {
	r.nationalRecords.Set(float64(status.CountRecords(statuses)))
}

// Finished stamps the run completion time
func (r *Recorder) Finished(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteFile writes all metrics to path atomically
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
