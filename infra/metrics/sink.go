// Package metrics exports run statistics to monitoring backends. The
// pipeline is a run-to-completion batch job, so metrics are pushed at
// the end of a run rather than scraped.
package metrics

import "time"

// RunStats summarizes one completed analysis run.
type RunStats struct {
	RunID             string
	IncidentCount     int
	DroppedRecords    int
	TotalMiles        int
	CumulativeMPI     float64
	LatestIntervalMPI int
	BestModel         string
	Duration          time.Duration
	Time              time.Time
}

// IntervalPoint is one interval of the MPI series, tagged with its
// fleet segment.
type IntervalPoint struct {
	Segment       string
	Date          time.Time
	MPI           float64
	CumulativeMPI float64
	FleetSize     float64
}

// Sink receives run statistics. Implementations must tolerate being
// called once per process lifetime.
type Sink interface {
	RecordRun(stats RunStats) error
	RecordIntervals(points []IntervalPoint) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordRun(RunStats) error              { return nil }
func (NopSink) RecordIntervals([]IntervalPoint) error { return nil }
