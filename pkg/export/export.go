// Package export writes the analysis result document to the formats
// downstream consumers read: the canonical JSON file, CSV extracts and
// the dashboard's app.js data arrays.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
)

// WriteJSON writes the document to w, indented for diffability.
func WriteJSON(w io.Writer, doc *analysis.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteCSV writes the interval records to w with stable headers.
func WriteCSV(w io.Writer, entries []analysis.IncidentEntry) error {
	cw := csv.NewWriter(w)
	header := []string{"incident_index", "incident_date", "days_since_previous",
		"miles_since_previous", "mpi_since_previous", "avg_fleet_size",
		"cumulative_miles", "cumulative_incidents", "cumulative_mpi"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			strconv.Itoa(e.IncidentIndex),
			e.IncidentDate,
			strconv.Itoa(e.DaysSincePrevious),
			strconv.Itoa(e.MilesSincePrevious),
			strconv.Itoa(e.MPISincePrevious),
			strconv.FormatFloat(e.AvgFleetSize, 'f', 2, 64),
			strconv.Itoa(e.CumulativeMiles),
			strconv.Itoa(e.CumulativeIncidents),
			strconv.FormatFloat(e.CumulativeMPI, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultFile writes the document to path atomically: the JSON is
// staged in a temp file and renamed into place, so a failed run can
// never leave a half-written result behind.
func WriteResultFile(path string, doc *analysis.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".results-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := WriteJSON(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
