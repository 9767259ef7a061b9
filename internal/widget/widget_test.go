package widget

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
	"github.com/grahampellegrini/pb-tracker/internal/pb"
	"github.com/grahampellegrini/pb-tracker/internal/status"
)

func table(kv ...string) pb.Table {
	t := make(pb.Table)
	for i := 0; i < len(kv); i += 2 {
		t[event.Key(kv[i])] = mark.MustParse(kv[i+1])
	}
	return t
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		table pb.Table
		want  []event.Key
	}{
		{
			name:  "variant follows base",
			table: table("400m", "46.83s", "200m", "21.18s", "200m SH", "21.83s"),
			want:  []event.Key{"200m", "200m SH", "400m"},
		},
		{
			name:  "variants sorted and shown without base",
			table: table("60m SH", "6.08s", "60m IN", "6.90s", "100m", "10.93s"),
			want:  []event.Key{"60m IN", "60m SH", "100m"},
		},
		{
			name:  "untracked distances last in lexicographic order",
			table: table("5000m", "15:10.00", "200m", "21.18s", "1000m", "2:30.00", "3000m SH", "8:40.00"),
			want:  []event.Key{"200m", "1000m", "3000m SH", "5000m"},
		},
		{
			name:  "2000m is not a variant of 200m",
			table: table("2000m", "6:00.00", "200m", "21.18s"),
			want:  []event.Key{"200m", "2000m"},
		},
		{
			name:  "empty",
			table: pb.Table{},
			want:  []event.Key{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order(tt.table, event.DefaultOrder)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Order() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	in := Input{
		Table:    table("400m", "46.83s", "200m", "21.18s", "200m SH", "21.83s"),
		Statuses: map[event.Key]string{"200m": status.NationalRecord, "400m": "5th All-Time"},
		Order:    event.DefaultOrder,
		Sources: []Source{
			{Name: "OpenTrack", URL: "https://malta.opentrack.run/"},
			{Name: "World Athletics", URL: "https://worldathletics.org/"},
		},
		Now: time.Date(2026, time.February, 7, 10, 0, 0, 0, time.UTC),
	}

	want := strings.Join([]string{
		"### 🏃 Automatic Personal Best Tracker",
		"",
		"| Event | PB | Status |",
		"|-------|------|--------|",
		"| 200m | 21.18s | National Record |",
		"| 200m SH | 21.83s | - |",
		"| 400m | 46.83s | 5th All-Time |",
		"",
		"> _Last updated: 07 February 2026_",
		"",
		"> _Sourced from [OpenTrack](https://malta.opentrack.run/) & [World Athletics](https://worldathletics.org/)_",
	}, "\n")

	if got := Render(in); got != want {
		t.Errorf("Render() mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCredits(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		want    string
	}{
		{"none", nil, "curated baseline data"},
		{"one", []Source{{Name: "OpenTrack", URL: "https://o/"}}, "[OpenTrack](https://o/)"},
		{"three", []Source{
			{Name: "A", URL: "https://a/"},
			{Name: "B", URL: "https://b/"},
			{Name: "C"},
		}, "[A](https://a/), [B](https://b/) & C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := credits(tt.sources); got != tt.want {
				t.Errorf("credits() = %q, want %q", got, tt.want)
			}
		})
	}
}
