package pb

import (
	"reflect"
	"testing"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
)

func table(kv ...string) Table {
	t := make(Table)
	for i := 0; i < len(kv); i += 2 {
		t[event.Key(kv[i])] = mark.MustParse(kv[i+1])
	}
	return t
}

func TestMerge(t *testing.T) {
	fallback := table("60m", "6.04s", "200m", "21.18s", "400m", "46.83s")

	tests := []struct {
		name   string
		tables []Table
		want   Table
	}{
		{
			name:   "faster second source wins",
			tables: []Table{table("100m", "11.00s"), table("100m", "10.90s")},
			want:   table("100m", "10.90s"),
		},
		{
			name:   "faster first source wins",
			tables: []Table{table("100m", "10.90s"), table("100m", "11.00s")},
			want:   table("100m", "10.90s"),
		},
		{
			name:   "empty sources fall back",
			tables: []Table{{}, {}, fallback},
			want:   fallback,
		},
		{
			name:   "stale scrape does not beat fallback",
			tables: []Table{table("200m", "21.40s"), fallback},
			want:   fallback,
		},
		{
			name:   "scrape beats fallback",
			tables: []Table{table("400m", "46.50s", "200m SH", "21.83s"), fallback},
			want:   table("60m", "6.04s", "200m", "21.18s", "400m", "46.50s", "200m SH", "21.83s"),
		},
		{
			name:   "nil tables are ignored",
			tables: []Table{nil, table("60m", "6.08s")},
			want:   table("60m", "6.08s"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.tables...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeTieKeepsFirst(t *testing.T) {
	first := Table{"100m": {Display: "10.90s", Seconds: 10.90}}
	second := Table{"100m": {Display: "10.9s", Seconds: 10.90}}

	got := Merge(first, second)
	if got["100m"].Display != "10.90s" {
		t.Errorf("tie kept %q, want first-seen %q", got["100m"].Display, "10.90s")
	}
}

func TestMergeIsMonotonic(t *testing.T) {
	a := table("100m", "10.93s", "200m", "21.50s")
	b := table("100m", "11.10s", "200m", "21.18s", "300m", "34.76s")

	merged := Merge(a, b)
	for _, src := range []Table{a, b} {
		for k, m := range src {
			if merged[k].Seconds > m.Seconds {
				t.Errorf("merged %s = %v is slower than input %v", k, merged[k], m)
			}
		}
	}
}

func TestFromStrings(t *testing.T) {
	got, rejected := FromStrings(map[string]string{
		"200m":    "21.18s",
		"200m SH": "21.83",
		"bogus":   "10.00s",
		"100m":    "fast",
	})

	want := table("200m", "21.18s", "200m SH", "21.83s")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromStrings() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(rejected, []string{"100m", "bogus"}) {
		t.Errorf("rejected = %v, want [100m bogus]", rejected)
	}
}

func TestKeys(t *testing.T) {
	got := table("400m", "46.83s", "200m SH", "21.83s", "200m", "21.18s").Keys()
	want := []event.Key{"200m", "200m SH", "400m"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}
