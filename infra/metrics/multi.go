package metrics

import "errors"

// MultiSink fans out to several sinks, collecting individual failures
// so one unhealthy backend cannot hide the others' data.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordRun forwards the stats to every sink.
func (m *MultiSink) RecordRun(stats RunStats) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordRun(stats); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordIntervals forwards the series to every sink.
func (m *MultiSink) RecordIntervals(points []IntervalPoint) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordIntervals(points); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
