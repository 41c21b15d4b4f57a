package migrate

import (
	"fmt"
	"strings"
)

// previewLimit bounds how many warnings/errors the run summary prints in
// full; the rest are counted.
const previewLimit = 5

// Stats accumulates a run's outcome counts plus bounded previews of
// warnings and errors.
type Stats struct {
	ManifestEntries int
	Loaded          int
	Written         int
	Collisions      int
	MediaDownloaded int
	MediaMissing    int
	NavTabs         int
	Verified        int

	Warnings []string
	Errors   []string
}

// NewStats builds an empty stats accumulator.
func NewStats() *Stats {
	return &Stats{}
}

// Warn records a warning.
func (s *Stats) Warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

// Error records a per-item error.
func (s *Stats) Error(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Summary renders the run-end report: per-outcome counts and the first few
// warnings and errors with a suppressed-count note.
func (s *Stats) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "articles loaded:    %d\n", s.Loaded)
	fmt.Fprintf(&b, "pages written:      %d\n", s.Written)
	fmt.Fprintf(&b, "path collisions:    %d\n", s.Collisions)
	fmt.Fprintf(&b, "manifest entries:   %d\n", s.ManifestEntries)
	fmt.Fprintf(&b, "media fetched:      %d\n", s.MediaDownloaded)
	fmt.Fprintf(&b, "media missing:      %d\n", s.MediaMissing)
	fmt.Fprintf(&b, "pages verified:     %d\n", s.Verified)
	fmt.Fprintf(&b, "warnings:           %d\n", len(s.Warnings))
	fmt.Fprintf(&b, "errors:             %d\n", len(s.Errors))

	writePreview(&b, "warnings", s.Warnings)
	writePreview(&b, "errors", s.Errors)

	return b.String()
}

func writePreview(b *strings.Builder, label string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\nfirst %s:\n", label)
	for i, entry := range entries {
		if i == previewLimit {
			fmt.Fprintf(b, "  ... and %d more\n", len(entries)-previewLimit)
			break
		}
		fmt.Fprintf(b, "  - %s\n", entry)
	}
}
