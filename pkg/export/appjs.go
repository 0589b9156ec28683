package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
	"github.com/knhuang/robotaxi-safety-tracker/infra/source"
)

// The dashboard keeps its chart data as literal JS arrays; these match
// the declarations SyncAppJS rewrites in place.
var (
	incidentDataRe       = regexp.MustCompile(`const incidentData = \[[\s\S]*?\];`)
	incidentDataActiveRe = regexp.MustCompile(`const incidentDataActive = \[[\s\S]*?\];`)
	fleetDataRe          = regexp.MustCompile(`const fleetData = \[[\s\S]*?\];`)
	latestActiveRe       = regexp.MustCompile(`const latestActiveFleetSize = \d+;`)
)

// SyncAppJS rewrites the dashboard's data arrays from the latest
// analysis document and fleet snapshots. It returns the updated content
// and whether anything changed.
func SyncAppJS(content []byte, doc *analysis.Document, fleet *source.FleetData) ([]byte, bool, error) {
	updated := string(content)

	incidents := incidentArray("incidentData", doc.Incidents)
	if !incidentDataRe.MatchString(updated) {
		return nil, false, fmt.Errorf("app.js: incidentData declaration not found")
	}
	updated = incidentDataRe.ReplaceAllLiteralString(updated, incidents)

	if doc.ActiveFleet != nil && incidentDataActiveRe.MatchString(updated) {
		active := incidentArray("incidentDataActive", doc.ActiveFleet.Incidents)
		updated = incidentDataActiveRe.ReplaceAllLiteralString(updated, active)
	}

	if fleet != nil && fleetDataRe.MatchString(updated) {
		updated = fleetDataRe.ReplaceAllLiteralString(updated, fleetArray(fleet))
		if latest := latestActiveSize(fleet); latest > 0 && latestActiveRe.MatchString(updated) {
			updated = latestActiveRe.ReplaceAllLiteralString(updated,
				fmt.Sprintf("const latestActiveFleetSize = %d;", latest))
		}
	}

	changed := updated != string(content)
	return []byte(updated), changed, nil
}

func incidentArray(name string, entries []analysis.IncidentEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "const %s = [\n", name)
	for _, e := range entries {
		fmt.Fprintf(&b, "    { date: '%s', days: %d, fleet: %d, miles: %d, mpi: %d },\n",
			e.IncidentDate, e.DaysSincePrevious, int(e.AvgFleetSize),
			e.MilesSincePrevious, e.MPISincePrevious)
	}
	b.WriteString("];")
	return b.String()
}

func fleetArray(fleet *source.FleetData) string {
	var b strings.Builder
	b.WriteString("const fleetData = [\n")
	for _, row := range fleet.Snapshots {
		size := row.TotalRobotaxi
		if size == nil {
			size = row.Austin
		}
		if size == nil || *size == 0 {
			continue
		}
		fmt.Fprintf(&b, "    { date: '%s', size: %d },\n", row.Date, *size)
	}
	b.WriteString("];")
	return b.String()
}

func latestActiveSize(fleet *source.FleetData) int {
	latest := 0
	for _, row := range fleet.Snapshots {
		if row.AustinActive != nil && *row.AustinActive > 0 {
			latest = *row.AustinActive
		}
	}
	return latest
}
