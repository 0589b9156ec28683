package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/incident"
)

// Column candidates in the NHTSA SGO exports. The agency has shuffled
// header names across releases, so the loader probes in order.
var (
	makeColumns   = []string{"Make", "MAKE", "Manufacturer", "MANUFACTURER", "Vehicle Make"}
	dateColumns   = []string{"Incident Date", "Date", "INCIDENT_DATE", "Report Date"}
	reportColumns = []string{"Report ID", "REPORT_ID", "Report Version ID"}
)

// dateLayouts covers the formats observed across SGO releases. The
// month-only layouts reflect the source's month-level precision on
// redacted rows; those parse to the first of the month, a documented
// data-quality limit the core does not correct.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan-2006",
	"2006-01",
}

// IncidentCSVResult is a parsed incident file: the qualifying records
// plus the number of rows dropped for unparseable or missing dates.
type IncidentCSVResult struct {
	Records []incident.Record
	Dropped int
}

// LoadIncidentCSV parses one NHTSA SGO CSV, keeping rows whose make
// contains makeFilter (case-insensitive; empty keeps everything) and
// tagging each record with the given system ("ADS" or "ADAS"). A
// missing file yields an empty result and no error.
func LoadIncidentCSV(path, system, makeFilter string) (IncidentCSVResult, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return IncidentCSVResult{}, nil
	}
	if err != nil {
		return IncidentCSVResult{}, fmt.Errorf("open incident csv: %w", err)
	}
	defer f.Close()
	return parseIncidentCSV(f, system, makeFilter)
}

func parseIncidentCSV(r io.Reader, system, makeFilter string) (IncidentCSVResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return IncidentCSVResult{}, nil
	}
	if err != nil {
		return IncidentCSVResult{}, fmt.Errorf("read csv header: %w", err)
	}

	makeIdx := findColumn(header, makeColumns)
	dateIdx := findColumn(header, dateColumns)
	reportIdx := findColumn(header, reportColumns)
	if dateIdx < 0 {
		return IncidentCSVResult{}, fmt.Errorf("no incident date column among %v", header)
	}

	res := IncidentCSVResult{}
	filter := strings.ToLower(makeFilter)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, same treatment as a bad date.
			res.Dropped++
			continue
		}
		if filter != "" {
			if makeIdx < 0 || makeIdx >= len(row) ||
				!strings.Contains(strings.ToLower(row[makeIdx]), filter) {
				continue
			}
		}
		if dateIdx >= len(row) {
			res.Dropped++
			continue
		}
		date, ok := parseIncidentDate(row[dateIdx])
		if !ok {
			res.Dropped++
			continue
		}
		rec := incident.Record{Date: date, System: system}
		if makeIdx >= 0 && makeIdx < len(row) {
			rec.Make = row[makeIdx]
		}
		if reportIdx >= 0 && reportIdx < len(row) {
			rec.ReportID = row[reportIdx]
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// MergeRecords concatenates record sets, deduplicating by report ID
// when one is present. First occurrence wins, so current-data files
// should be merged before archives.
func MergeRecords(sets ...[]incident.Record) []incident.Record {
	seen := make(map[string]struct{})
	var merged []incident.Record
	for _, set := range sets {
		for _, r := range set {
			if r.ReportID != "" {
				if _, ok := seen[r.ReportID]; ok {
					continue
				}
				seen[r.ReportID] = struct{}{}
			}
			merged = append(merged, r)
		}
	}
	return merged
}

func parseIncidentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// SGO month-only values arrive uppercased (JUL-2025).
	if t, err := time.Parse("Jan-2006", titleMonth(s)); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func titleMonth(s string) string {
	if len(s) < 3 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func findColumn(header, candidates []string) int {
	for _, c := range candidates {
		for i, h := range header {
			if strings.TrimSpace(h) == c {
				return i
			}
		}
	}
	return -1
}
