// Package incident turns a chronological list of safety incidents into
// per-interval mileage records, the series the trend analysis runs on.
package incident

import (
	"sort"
	"time"
)

// Record is one reported safety incident. Only the date participates in
// the interval math; the rest is carried through for reporting. Dates
// from the upstream source may only have month-level precision, which
// is a known data-quality limit, not something this package corrects.
type Record struct {
	Date     time.Time
	ReportID string
	System   string // "ADS" or "ADAS"
	Make     string
}

// SortByDate orders records chronologically in place. Records sharing a
// date keep their relative load order.
func SortByDate(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
}

// Interval describes the span between two consecutive incidents (or
// between service start and the first incident) and the running
// cumulative metric up to and including its incident.
type Interval struct {
	Index               int
	IncidentDate        time.Time
	DaysSincePrevious   int
	MilesSincePrevious  int
	AvgFleetSize        float64
	CumulativeMiles     int
	CumulativeIncidents int
	CumulativeMPI       float64
	// ExcludedDays and ActiveDays are populated only when a service
	// stoppage removed at least one day from the interval, so consumers
	// can tell "no stoppage" apart from "stoppage excluded zero days".
	ExcludedDays int
	ActiveDays   int
}

// MPISincePrevious is the interval's own miles-per-incident figure.
// Each interval ends with exactly one incident, so it equals the
// interval mileage; same-day clusters yield zero.
func (iv Interval) MPISincePrevious() int { return iv.MilesSincePrevious }
