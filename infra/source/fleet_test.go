package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleFleetJSON = `{
  "snapshots": [
    {"date": "2025-06-25", "austin_vehicles": 10},
    {"date": "not-a-date", "austin_vehicles": 11},
    {"date": "2025-07-25", "total_robotaxi": 30, "austin_vehicles": 20, "austin_active_vehicles": 14, "bayarea_vehicles": 10}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFleetData(t *testing.T) {
	fd, err := LoadFleetData(writeTemp(t, "fleet_data.json", sampleFleetJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(fd.Snapshots) != 2 || fd.DroppedRows != 1 {
		t.Fatalf("snapshots = %d dropped = %d, want 2/1", len(fd.Snapshots), fd.DroppedRows)
	}

	day := time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC)
	// total_robotaxi outranks austin_vehicles for the total segment.
	if got := fd.TotalTimeline(25).SizeAt(day); got != 30 {
		t.Fatalf("total size = %d, want 30", got)
	}
	active := fd.ActiveTimeline(25)
	if active == nil {
		t.Fatal("active timeline missing despite an active measurement")
	}
	if got := active.SizeAt(day); got != 14 {
		t.Fatalf("active size = %d, want 14", got)
	}

	row, ok := fd.LatestCounts()
	if !ok || row.BayArea == nil || *row.BayArea != 10 {
		t.Fatalf("latest counts = %+v", row)
	}
}

func TestLoadFleetDataMissingFile(t *testing.T) {
	fd, err := LoadFleetData(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(fd.Snapshots) != 0 {
		t.Fatalf("got %d snapshots from a missing file", len(fd.Snapshots))
	}
	if fd.ActiveTimeline(25) != nil {
		t.Fatal("active timeline must be nil without measurements")
	}
	// The total timeline still answers with the seed.
	if got := fd.TotalTimeline(25).SizeAt(time.Now()); got != 25 {
		t.Fatalf("seeded size = %d, want 25", got)
	}
}

func TestSampleIncidentsDeterministic(t *testing.T) {
	start := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)
	recs := SampleIncidents(start)
	if len(recs) != len(sampleOffsets) {
		t.Fatalf("got %d sample incidents", len(recs))
	}
	if !recs[0].Date.Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("first sample date = %s", recs[0].Date)
	}
	if recs[0].ReportID != "SAMPLE-1" || recs[7].ReportID != "SAMPLE-8" {
		t.Fatalf("sample IDs = %s .. %s", recs[0].ReportID, recs[7].ReportID)
	}
}
