package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knhuang/robotaxi-safety-tracker/config"
	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
	"github.com/knhuang/robotaxi-safety-tracker/core/report"
	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
	"github.com/knhuang/robotaxi-safety-tracker/infra/notify"
	"github.com/knhuang/robotaxi-safety-tracker/infra/source"
	"github.com/knhuang/robotaxi-safety-tracker/infra/store"
)

var (
	reportDryRun bool
	reportTestTo string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render and send the weekly summary email",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportDryRun, "dry-run", false, "render the summary to stdout without sending")
	reportCmd.Flags().StringVar(&reportTestTo, "test-to", "", "send only to the given address instead of the subscriber list")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithLevel("report", cfg.Logging.Level)

	doc, err := loadDocument(cfg.Sources.Resolve(cfg.Sources.ResultsFile))
	if err != nil {
		return err
	}

	in := report.Input{Doc: doc, TrackerURL: cfg.Sources.TrackerURL}
	if fd, err := source.LoadFleetData(cfg.Sources.Resolve(cfg.Sources.FleetFile)); err == nil {
		if row, ok := fd.LatestCounts(); ok {
			status := report.FleetStatus{}
			if row.Austin != nil {
				status.Austin = *row.Austin
			}
			if row.BayArea != nil {
				status.BayArea = *row.BayArea
			}
			in.Fleet = &status
		}
	}
	if cfg.Sources.HistoryDB != "" {
		in.Previous = previousRun(cfg.Sources.Resolve(cfg.Sources.HistoryDB), doc, logg)
	}

	sum, err := report.Build(in)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if reportDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\n\n%s\n", sum.Subject, sum.Text)
		return nil
	}

	recipients := []string{reportTestTo}
	if reportTestTo == "" {
		recipients, err = source.LoadSubscribers(cfg.Sources.Resolve(cfg.Sources.SubscribersFile))
		if err != nil {
			return fmt.Errorf("subscribers: %w", err)
		}
	}
	if len(recipients) == 0 {
		logg.Warnf("no subscribers configured, nothing to send")
		return nil
	}

	sender := notify.NewEmailSender(cfg.Notify.SMTP, logg)
	msg := notify.Message{Subject: sum.Subject, Text: sum.Text, HTML: sum.HTML}
	sent, failed, firstErr := sender.Send(msg, recipients)
	logg.Infof("email summary: %d sent, %d failed", sent, failed)

	if cfg.Notify.MQTTEnabled {
		if err := publishSummary(cfg.Notify.MQTT, doc, logg); err != nil {
			logg.Errorf("mqtt publish: %v", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sends failed: %w", failed, len(recipients), firstErr)
	}
	return nil
}

func loadDocument(path string) (*analysis.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results (run analyze first): %w", err)
	}
	var doc analysis.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &doc, nil
}

// previousRun picks the newest history row that is not the current run.
func previousRun(path string, doc *analysis.Document, logg logger.Logger) *report.PreviousRun {
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		logg.Warnf("run history unavailable: %v", err)
		return nil
	}
	defer func() { _ = st.Close() }()
	rows, err := st.Recent(2)
	if err != nil {
		logg.Warnf("run history unavailable: %v", err)
		return nil
	}
	for _, r := range rows {
		if r.RunID == doc.RunID {
			continue
		}
		return &report.PreviousRun{CumulativeMPI: r.CumulativeMPI, IncidentCount: r.IncidentCount}
	}
	return nil
}

func publishSummary(cfg notify.MQTTConfig, doc *analysis.Document, logg logger.Logger) error {
	pub, err := notify.NewMQTTPublisher(cfg, logg)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]any{
		"run_id":              doc.RunID,
		"analysis_date":       doc.AnalysisDate,
		"incident_count":      doc.Summary.IncidentCount,
		"total_miles":         doc.Summary.TotalMiles,
		"cumulative_mpi":      doc.Summary.CumulativeMPI,
		"latest_interval_mpi": doc.Summary.LatestIntervalMPI,
	})
	if err != nil {
		return err
	}
	return pub.Publish(payload)
}
