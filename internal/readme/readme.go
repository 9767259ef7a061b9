// Package readme splices rendered content between marker comments in a
// text file.
package readme

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	StartMarker = "<!-- START_PB -->"
	EndMarker   = "<!-- END_PB -->"
)

var (
	// ErrMarkersMissing means the start or end marker is absent
	ErrMarkersMissing = errors.New("README markers not found")

	// ErrMarkerOrder means the end marker precedes the start marker
	ErrMarkerOrder = errors.New("README end marker precedes start marker")
)

// Splice replaces everything between the first start marker and the first
// end marker after it. Markers are kept; the content sits on its own lines
// between them. Splicing the same content twice gives identical output.
func Splice(doc, content string) (string, error) {
	start := strings.Index(doc, StartMarker)
	if start < 0 {
		return "", ErrMarkersMissing
	}
	end := strings.Index(doc[start+len(StartMarker):], EndMarker)
	if end < 0 {
		if strings.Contains(doc[:start], EndMarker) {
			return "", ErrMarkerOrder
		}
		return "", ErrMarkersMissing
	}
	end += start + len(StartMarker)

	before := doc[:start]
	after := doc[end+len(EndMarker):]

	var b strings.Builder
	b.Grow(len(before) + len(content) + len(after) + len(StartMarker) + len(EndMarker) + 2)
	b.WriteString(before)
	b.WriteString(StartMarker)
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(EndMarker)
	b.WriteString(after)
	return b.String(), nil
}

// Patch rewrites the file at path with content spliced between the markers.
// The new text is computed in full before anything is written, and the file
// is left untouched on any error. It reports whether the file changed.
func Patch(path, content string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, err := Splice(string(data), content)
	if err != nil {
		return false, fmt.Errorf("patching %s: %w", path, err)
	}

	if updated == string(data) {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// MarkerBlock is the snippet users add to a README to enable patching
func MarkerBlock() string {
	return StartMarker + "\n<!-- Insert Personal Best Tracker here -->\n" + EndMarker
}
