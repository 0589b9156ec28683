package source

import (
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/incident"
)

// sampleOffsets are days after service start for the demonstration
// incident set, used when no NHTSA CSV has been downloaded yet. Eight
// incidents matches the publicly reported count through October 2025.
var sampleOffsets = []int{7, 16, 30, 45, 67, 88, 102, 118}

// SampleIncidents returns a deterministic demonstration incident list
// anchored at serviceStart. It exists so the pipeline produces a full
// report before the first real download, and must never be mixed with
// real data.
func SampleIncidents(serviceStart time.Time) []incident.Record {
	recs := make([]incident.Record, 0, len(sampleOffsets))
	for i, off := range sampleOffsets {
		recs = append(recs, incident.Record{
			Date:     serviceStart.AddDate(0, 0, off),
			System:   "ADS",
			Make:     "Tesla",
			ReportID: sampleID(i + 1),
		})
	}
	return recs
}

func sampleID(n int) string {
	return "SAMPLE-" + string(rune('0'+n))
}
