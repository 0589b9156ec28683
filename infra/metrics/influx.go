package metrics

import (
	"context"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
)

// InfluxSink writes run summaries and the interval MPI series to an
// InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so an unreachable backend never
// blocks an analysis run.
func NewInfluxSinkWithFallback(url, token, org, bucket string) Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// RecordRun writes the run summary as one point.
func (s *InfluxSink) RecordRun(stats RunStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("analysis_run").
		AddTag("run_id", stats.RunID).
		AddTag("best_model", stats.BestModel).
		AddField("incident_count", stats.IncidentCount).
		AddField("dropped_records", stats.DroppedRecords).
		AddField("total_miles", stats.TotalMiles).
		AddField("cumulative_mpi", stats.CumulativeMPI).
		AddField("latest_interval_mpi", stats.LatestIntervalMPI).
		AddField("duration_seconds", stats.Duration.Seconds()).
		SetTime(stats.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordIntervals writes the MPI series, one point per interval.
func (s *InfluxSink) RecordIntervals(points []IntervalPoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, pt := range points {
		p := write.NewPointWithMeasurement("incident_interval").
			AddTag("segment", pt.Segment).
			AddField("mpi", pt.MPI).
			AddField("cumulative_mpi", pt.CumulativeMPI).
			AddField("avg_fleet_size", pt.FleetSize).
			SetTime(pt.Date)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts the underlying client down.
func (s *InfluxSink) Close() { s.client.Close() }
