package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/status"
	"github.com/grahampellegrini/pb-tracker/internal/tracker"
	"github.com/grahampellegrini/pb-tracker/internal/widget"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	RunID           string                 `json:"run_id"`
	CheckedAt       time.Time              `json:"checked_at"`
	Rows            []widget.Row           `json:"rows"`
	Sources         []tracker.SourceReport `json:"sources"`
	NationalRecords int                    `json:"national_records"`
	Publication     *tracker.Publication   `json:"publication,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "No personal bests found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range result.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Event, row.PB, row.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintln(w)
		for _, s := range result.Sources {
			if s.Error != "" {
				fmt.Fprintf(w, "  %s: failed: %s\n", s.Name, s.Error)
			} else {
				fmt.Fprintf(w, "  %s: %d events\n", s.Name, s.Events)
			}
		}
		if result.RunID != "" {
			fmt.Fprintf(w, "  run: %s\n", result.RunID)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events, %d national records\n", len(result.Rows), result.NationalRecords)
	return nil
}

func countRecords(res *tracker.Result) int {
	return status.CountRecords(res.Statuses)
}
