// Package event provides the canonical identifier for a race event.
//
// A Key is a numeric distance in metres followed by an optional variant
// suffix: "200m", "200m SH" (short track) or "60m IN" (indoor). Every source
// parser maps its own free-text discipline names into this key space so
// that results from different sites can be merged and ordered together.
package event
