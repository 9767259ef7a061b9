package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderValues(t *testing.T) {
	r := New()

	r.PersonalBests(pb.Table{
		"200m": mark.MustParse("21.18"),
		"400m": mark.MustParse("46.83"),
	})
	r.Source("opentrack", 5, true)
	r.Source("world_athletics", 0, false)
	r.Statuses(map[event.Key]string{
		"200m":    "National Record",
		"200m SH": "National Record",
		"400m":    "3rd All-Time",
	})
	r.Finished(time.Unix(1700000000, 0))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"200m pb", testutil.ToFloat64(r.personalBest.WithLabelValues("200m")), 21.18},
		{"opentrack events", testutil.ToFloat64(r.sourceEvents.WithLabelValues("opentrack")), 5},
		{"opentrack up", testutil.ToFloat64(r.sourceUp.WithLabelValues("opentrack")), 1},
		{"world athletics up", testutil.ToFloat64(r.sourceUp.WithLabelValues("world_athletics")), 0},
		{"national records", testutil.ToFloat64(r.nationalRecords), 2},
		{"last run", testutil.ToFloat64(r.lastRun), 1700000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestObserveFetch(t *testing.T) {
	r := New()
	r.ObserveFetch("direct", 200*time.Millisecond)
	r.ObserveFetch("direct", 300*time.Millisecond)
	r.ObserveFetch("browser", 7*time.Second)

	if n := testutil.CollectAndCount(r.fetchDuration); n != 2 {
		t.Errorf("fetch duration series = %d, want 2", n)
	}
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.PersonalBests(pb.Table{"200m": mark.MustParse("21.18")})
	r.Source("opentrack", 1, true)

	path := filepath.Join(t.TempDir(), "pb_tracker.prom")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading metrics file: %v", err)
	}

	for _, want := range []string{
		`pb_tracker_personal_best_seconds{event="200m"} 21.18`,
		`pb_tracker_source_up{source="opentrack"} 1`,
		"# TYPE pb_tracker_national_records gauge",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file missing %q:\n%s", want, data)
		}
	}
}

func TestWriteFileBadPath(t *testing.T) {
	r := New()
	path := filepath.Join(t.TempDir(), "missing", "dir", "pb.prom")
	if err := r.WriteFile(path); err == nil {
		t.Error("WriteFile() expected error for missing directory")
	}
}
