package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/dp-monitor/internal/journal"
	"github.com/pfrederiksen/dp-monitor/internal/monitor"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteReport writes a one-line summary per source
func WriteReport(w io.Writer, report *monitor.Report) error {
	for _, out := range report.Outcomes {
		status := "unchanged"
		if out.Recorded {
			status = "recorded"
		}
		if !out.OK() && !out.Recorded {
			status = string(out.Reason)
		}
		if _, err := fmt.Fprintf(w, "%-24s %-14s %s\n", out.Source, status, out.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteJournal writes a journal in the specified format
func WriteJournal(w io.Writer, j *journal.Journal, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(j.Entries())
	case FormatText:
		if j.Len() == 0 {
			_, err := fmt.Fprintln(w, "No entries recorded.")
			return err
		}
		for _, e := range j.Entries() {
			if _, err := fmt.Fprintf(w, "%s  %s\n", e.Date, e.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
