package event

import (
	"regexp"
	"strings"
)

// Variant distinguishes track conditions for the same distance
type Variant string

const (
	Outdoor    Variant = ""
	ShortTrack Variant = "SH"
	Indoor     Variant = "IN"
)

// Key identifies a race distance and variant, e.g. "200m" or "200m SH"
type Key string

// DefaultTargets are the distances (in metres) tracked by default
var DefaultTargets = []string{"60", "100", "200", "300", "400", "800", "1500"}

// DefaultOrder is the canonical display order of base events
var DefaultOrder = []Key{"60m", "100m", "200m", "300m", "400m", "800m", "1500m"}

var keyPattern = regexp.MustCompile(`^(\d+)m(?: (SH|IN))?$`)

// NewKey builds a key from a distance in metres and a variant
func NewKey(distance string, v Variant) Key {
	k := Key(strings.TrimSpace(distance) + "m")
	if v != Outdoor {
		k += Key(" " + string(v))
	}
	return k
}

// Parse validates s as a key. Surrounding whitespace is ignored.
func Parse(s string) (Key, bool) {
	s = strings.TrimSpace(s)
	if !keyPattern.MatchString(s) {
		return "", false
	}
	return Key(s), true
}

// Distance returns the numeric part of the key ("200" for "200m SH")
func (k Key) Distance() string {
	return strings.TrimSuffix(string(k.Base()), "m")
}

// Base strips the variant suffix ("200m SH" -> "200m")
func (k Key) Base() Key {
	if i := strings.IndexByte(string(k), ' '); i >= 0 {
		return k[:i]
	}
	return k
}

// Variant returns the variant suffix, or Outdoor when there is none
func (k Key) Variant() Variant {
	if i := strings.IndexByte(string(k), ' '); i >= 0 {
		return Variant(k[i+1:])
	}
	return Outdoor
}

// IsIndoor reports whether the key carries a short track or indoor variant
func (k Key) IsIndoor() bool {
	v := k.Variant()
	return v == ShortTrack || v == Indoor
}

// IsVariantOf reports whether k is a variant of the given base key
func (k Key) IsVariantOf(base Key) bool {
	return k != base && k.Base() == base
}

func (k Key) String() string {
	return string(k)
}
