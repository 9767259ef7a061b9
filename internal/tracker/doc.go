// Package tracker runs the personal best pipeline: scrape the sources,
// merge with the fallback table, annotate records and all-time positions,
// render the widget and publish it into the README.
//
// Stages run strictly in sequence. Source failures degrade the result but
// never abort a run; only publishing the README can fail the run.
package tracker
