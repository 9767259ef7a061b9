// Package scraper fetches and parses personal bests, record flags, national
// records and all-time list positions from OpenTrack, World Athletics and
// Athletics Malta.
//
// Every source is best effort. The parsers sniff table shapes and script
// markers that the upstream sites change without notice, so a parse that
// finds nothing returns ErrNotFound rather than guessing, and callers carry
// on with whatever the other sources produced. OpenTrack can be bypassed
// entirely with a JSON object of event times in an environment variable.
package scraper
