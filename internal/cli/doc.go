// Package cli implements the pb-tracker command.
//
// The command loads configuration, builds the fetch strategy chains and
// scrapers, runs the tracker pipeline and publishes the widget into the
// README. A run summary is written to stdout as text or JSON; structured
// logs go to stderr. The exit status is non-zero only when configuration is
// invalid or the README could not be updated.
package cli
