package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PromPushSink pushes run gauges to a Prometheus Pushgateway when the
// batch completes. Interval-level series are not pushed: a gateway
// keeps only last values, so the per-run aggregates are what belong
// there.
type PromPushSink struct {
	pusher *push.Pusher

	incidents prometheus.Gauge
	dropped   prometheus.Gauge
	miles     prometheus.Gauge
	mpi       prometheus.Gauge
	latest    prometheus.Gauge
	duration  prometheus.Gauge
	runs      prometheus.Counter
}

// NewPromPushSink builds a sink targeting the given Pushgateway URL
// under the given job name.
func NewPromPushSink(gatewayURL, job string) *PromPushSink {
	reg := prometheus.NewRegistry()
	s := &PromPushSink{
		incidents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_incident_count",
			Help: "Qualifying incidents in the latest analysis run",
		}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_dropped_records",
			Help: "Input records dropped for unparseable dates",
		}),
		miles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_total_miles",
			Help: "Estimated total miles driven since service start",
		}),
		mpi: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_cumulative_mpi",
			Help: "Cumulative miles per incident",
		}),
		latest: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_latest_interval_mpi",
			Help: "Miles per incident of the latest interval",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_run_duration_seconds",
			Help: "Wall-clock duration of the analysis run",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_runs_total",
			Help: "Completed analysis runs",
		}),
	}
	reg.MustRegister(s.incidents, s.dropped, s.miles, s.mpi, s.latest, s.duration, s.runs)
	s.pusher = push.New(gatewayURL, job).Gatherer(reg)
	return s
}

// RecordRun sets the gauges and pushes them to the gateway.
func (s *PromPushSink) RecordRun(stats RunStats) error {
	s.incidents.Set(float64(stats.IncidentCount))
	s.dropped.Set(float64(stats.DroppedRecords))
	s.miles.Set(float64(stats.TotalMiles))
	s.mpi.Set(stats.CumulativeMPI)
	s.latest.Set(float64(stats.LatestIntervalMPI))
	s.duration.Set(stats.Duration.Seconds())
	s.runs.Inc()
	return s.pusher.Push()
}

// RecordIntervals is a no-op for the gateway; see the type comment.
func (s *PromPushSink) RecordIntervals([]IntervalPoint) error { return nil }
