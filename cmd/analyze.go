package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/knhuang/robotaxi-safety-tracker/config"
	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
	"github.com/knhuang/robotaxi-safety-tracker/core/fleet"
	"github.com/knhuang/robotaxi-safety-tracker/core/incident"
	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
	"github.com/knhuang/robotaxi-safety-tracker/infra/metrics"
	"github.com/knhuang/robotaxi-safety-tracker/infra/source"
	"github.com/knhuang/robotaxi-safety-tracker/infra/store"
	"github.com/knhuang/robotaxi-safety-tracker/pkg/export"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute miles-per-incident and write the result document",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithLevel("analyze", cfg.Logging.Level)
	started := time.Now()

	records, dropped, err := loadIncidents(cfg, logg)
	if err != nil {
		return err
	}

	fleetData, err := source.LoadFleetData(cfg.Sources.Resolve(cfg.Sources.FleetFile))
	if err != nil {
		return fmt.Errorf("fleet data: %w", err)
	}
	dropped += fleetData.DroppedRows
	logg.Infof("fleet snapshots: %d usable, %d dropped", len(fleetData.Snapshots), fleetData.DroppedRows)

	stoppages, sd, err := source.LoadStoppages(cfg.Sources.Resolve(cfg.Sources.StoppagesFile))
	if err != nil {
		return fmt.Errorf("stoppages: %w", err)
	}
	dropped += sd

	inputs := analysis.Inputs{
		Incidents:        records,
		DroppedIncidents: dropped,
		TotalFleet:       fleetData.TotalTimeline(cfg.Analysis.DefaultFleetSize),
		ActiveFleet:      fleetData.ActiveTimeline(cfg.Analysis.DefaultFleetSize),
		Stoppages:        fleet.NewStoppageSet(stoppages),
	}
	doc := analysis.Run(cfg.Analysis.RunnerConfig(), inputs, logg)

	resultsPath := cfg.Sources.Resolve(cfg.Sources.ResultsFile)
	if err := export.WriteResultFile(resultsPath, doc); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	logg.Infof("wrote %s: %d incidents, cumulative MPI %.0f",
		resultsPath, doc.Summary.IncidentCount, doc.Summary.CumulativeMPI)

	if cfg.Sources.HistoryDB != "" {
		if err := recordHistory(cfg.Sources.Resolve(cfg.Sources.HistoryDB), doc); err != nil {
			logg.Errorf("run history: %v", err)
		}
	}
	recordMetrics(cfg.Metrics, doc, time.Since(started), logg)
	return nil
}

// loadIncidents merges the current and archive NHTSA files, falling
// back to the demonstration sample when no file yielded anything.
func loadIncidents(cfg *config.Config, logg logger.Logger) ([]incident.Record, int, error) {
	type src struct {
		file   string
		system string
	}
	srcs := []src{
		{cfg.Sources.ADSFile, "ADS"},
		{cfg.Sources.ADASFile, "ADAS"},
		{cfg.Sources.ADSArchiveFile, "ADS"},
		{cfg.Sources.ADASArchiveFile, "ADAS"},
	}
	var sets [][]incident.Record
	dropped := 0
	for _, s := range srcs {
		res, err := source.LoadIncidentCSV(cfg.Sources.Resolve(s.file), s.system, cfg.Analysis.MakeFilter)
		if err != nil {
			return nil, 0, fmt.Errorf("incident csv %s: %w", s.file, err)
		}
		sets = append(sets, res.Records)
		dropped += res.Dropped
	}
	records := source.MergeRecords(sets...)
	logg.Infof("incident records: %d matched, %d dropped for bad dates", len(records), dropped)
	if len(records) == 0 {
		logg.Warnf("no incident data found; using the demonstration sample set")
		records = source.SampleIncidents(cfg.Analysis.ServiceStartDate())
	}
	return records, dropped, nil
}

func recordHistory(path string, doc *analysis.Document) error {
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	row := store.RunRow{
		RunID:             doc.RunID,
		AnalysisDate:      doc.AnalysisDate,
		IncidentCount:     doc.Summary.IncidentCount,
		TotalMiles:        doc.Summary.TotalMiles,
		CumulativeMPI:     doc.Summary.CumulativeMPI,
		LatestIntervalMPI: doc.Summary.LatestIntervalMPI,
	}
	if ta := doc.TrendAnalysis; ta != nil && ta.BestFit != nil {
		row.BestModel = ta.BestModel
		if ta.BestFit.RSquared != nil {
			row.RSquared = sql.NullFloat64{Float64: *ta.BestFit.RSquared, Valid: true}
		}
	}
	if doc.Forecast != nil {
		row.PredictedMPI = sql.NullFloat64{Float64: doc.Forecast.PredictedMPI, Valid: true}
	}
	return st.Add(row)
}

func recordMetrics(mc config.MetricsConfig, doc *analysis.Document, dur time.Duration, logg logger.Logger) {
	var sinks []metrics.Sink
	if mc.PushgatewayEnabled {
		sinks = append(sinks, metrics.NewPromPushSink(mc.PushgatewayURL, mc.Job()))
	}
	if mc.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(mc.InfluxURL, mc.InfluxToken, mc.InfluxOrg, mc.InfluxBucket))
	}
	if len(sinks) == 0 {
		return
	}
	var sink metrics.Sink = metrics.NewMultiSink(sinks...)

	stats := metrics.RunStats{
		RunID:             doc.RunID,
		IncidentCount:     doc.Summary.IncidentCount,
		DroppedRecords:    doc.DroppedIncidents,
		TotalMiles:        doc.Summary.TotalMiles,
		CumulativeMPI:     doc.Summary.CumulativeMPI,
		LatestIntervalMPI: doc.Summary.LatestIntervalMPI,
		Duration:          dur,
		Time:              time.Now(),
	}
	if doc.TrendAnalysis != nil {
		stats.BestModel = doc.TrendAnalysis.BestModel
	}
	if err := sink.RecordRun(stats); err != nil {
		logg.Errorf("record run metrics: %v", err)
	}
	if err := sink.RecordIntervals(intervalPoints(doc)); err != nil {
		logg.Errorf("record interval metrics: %v", err)
	}
}

func intervalPoints(doc *analysis.Document) []metrics.IntervalPoint {
	var pts []metrics.IntervalPoint
	appendSeg := func(segment string, entries []analysis.IncidentEntry) {
		for _, e := range entries {
			d, err := time.Parse(analysis.DateFormat, e.IncidentDate)
			if err != nil {
				continue
			}
			pts = append(pts, metrics.IntervalPoint{
				Segment:       segment,
				Date:          d,
				MPI:           float64(e.MPISincePrevious),
				CumulativeMPI: e.CumulativeMPI,
				FleetSize:     e.AvgFleetSize,
			})
		}
	}
	appendSeg("total", doc.Incidents)
	if doc.ActiveFleet != nil {
		appendSeg("active", doc.ActiveFleet.Incidents)
	}
	return pts
}
