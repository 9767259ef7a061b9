// Package pb holds personal-best tables and the fastest-wins merge.
package pb

import (
	"sort"

	"github.com/grahampellegrini/pb-tracker/internal/event"
	"github.com/grahampellegrini/pb-tracker/internal/mark"
)

// Table maps an event to its best mark. Order is decided at render time.
type Table map[event.Key]mark.Mark

// Keep records m for key unless the table already holds a mark that is as
// fast or faster. It reports whether the table changed.
func (t Table) Keep(key event.Key, m mark.Mark) bool {
	if cur, ok := t[key]; ok && !m.Faster(cur) {
		return false
	}
	t[key] = m
	return true
}

// Keys returns the table keys in lexicographic order
func (t Table) Keys() []event.Key {
	keys := make([]event.Key, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns a shallow copy
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// FromStrings builds a table from raw key/time strings. Entries whose key
// or time does not parse are skipped and returned as rejected keys.
func FromStrings(raw map[string]string) (Table, []string) {
	t := make(Table, len(raw))
	var rejected []string
	for k, v := range raw {
		key, ok := event.Parse(k)
		if !ok {
			rejected = append(rejected, k)
			continue
		}
		m, ok := mark.Parse(v)
		if !ok {
			rejected = append(rejected, k)
			continue
		}
		t.Keep(key, m)
	}
	sort.Strings(rejected)
	return t, rejected
}

// Merge combines tables keeping the fastest mark per event. Ties keep the
// mark seen first, so callers pass scraped sources before the fallback.
// Merge never yields a slower mark than any input holds for the same event.
func Merge(tables ...Table) Table {
	out := make(Table)
	for _, t := range tables {
		for k, m := range t {
			out.Keep(k, m)
		}
	}
	return out
}
