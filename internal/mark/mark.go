// Package mark normalises race times ("marks") scraped from results pages.
//
// Raw marks arrive in many shapes: "10.72 (+3.3)" with a wind reading,
// "21.18s", "1:02.30" or the records-table style "1.52.30". Parse turns
// them into a Mark holding a canonical display string ending in "s" and a
// comparable number of seconds. Invalid input (header cells, DNF, empty
// strings) yields no value rather than an error.
package mark

import (
	"math"
	"strconv"
	"strings"
)

// Mark is a race time as displayed and as total seconds
type Mark struct {
	Display string  `json:"display"`
	Seconds float64 `json:"seconds"`
}

// Parse normalises a raw time string. It returns false for anything that is
// not a time: missing separator, stray characters, or malformed numbers.
func Parse(raw string) (Mark, bool) {
	clean := clean(raw)
	if clean == "" || !strings.ContainsAny(clean, ".:") {
		return Mark{}, false
	}
	for _, r := range clean {
		if (r < '0' || r > '9') && r != '.' && r != ':' {
			return Mark{}, false
		}
	}

	secs, ok := Seconds(clean)
	if !ok {
		return Mark{}, false
	}

	return Mark{Display: clean + "s", Seconds: secs}, true
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(raw string) Mark {
	m, ok := Parse(raw)
	if !ok {
		panic("mark: invalid time " + strconv.Quote(raw))
	}
	return m
}

// Seconds converts a time string to total seconds.
// Supported: "21.18", "1:02.30" (m:ss), "1:02:03.4" (h:mm:ss) and
// "1.52.30" (m.ss.hh, as used in national records tables).
func Seconds(raw string) (float64, bool) {
	s := clean(raw)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return 0, false
		}
		total := 0.0
		for i, p := range parts {
			last := i == len(parts)-1
			v, ok := number(p, last)
			if !ok {
				return 0, false
			}
			total = total*60 + v
		}
		return total, true
	}

	if strings.Count(s, ".") == 2 {
		parts := strings.Split(s, ".")
		mins, ok := number(parts[0], false)
		if !ok {
			return 0, false
		}
		secs, ok := number(parts[1]+"."+parts[2], true)
		if !ok {
			return 0, false
		}
		return mins*60 + secs, true
	}

	return number(s, true)
}

// number parses one component. Only the last component may be fractional.
func number(s string, fractional bool) (float64, bool) {
	if s == "" || strings.HasPrefix(s, ".") {
		return 0, false
	}
	for _, r := range s {
		if r == '.' && fractional {
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return 0, false
	}
	return v, true
}

// clean drops a trailing parenthetical (wind reading), whitespace and a
// trailing "s" unit
func clean(raw string) string {
	if i := strings.IndexByte(raw, '('); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "s")
	return strings.TrimSpace(raw)
}

// Faster reports whether m is strictly quicker than other
func (m Mark) Faster(other Mark) bool {
	return m.Seconds < other.Seconds
}

// Centiseconds returns the mark rounded to hundredths, the resolution of
// hand-entered results tables
func (m Mark) Centiseconds() int64 {
	return int64(math.Round(m.Seconds * 100))
}

func (m Mark) String() string {
	return m.Display
}
