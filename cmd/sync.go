package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knhuang/robotaxi-safety-tracker/config"
	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
	"github.com/knhuang/robotaxi-safety-tracker/infra/source"
	"github.com/knhuang/robotaxi-safety-tracker/pkg/export"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the dashboard's embedded data arrays from the latest results",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithLevel("sync", cfg.Logging.Level)

	doc, err := loadDocument(cfg.Sources.Resolve(cfg.Sources.ResultsFile))
	if err != nil {
		return err
	}
	fleetData, err := source.LoadFleetData(cfg.Sources.Resolve(cfg.Sources.FleetFile))
	if err != nil {
		return fmt.Errorf("fleet data: %w", err)
	}

	path := cfg.Sources.Resolve(cfg.Sources.AppJSFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dashboard script: %w", err)
	}
	updated, changed, err := export.SyncAppJS(content, doc, fleetData)
	if err != nil {
		return fmt.Errorf("sync dashboard script: %w", err)
	}
	if !changed {
		logg.Infof("%s already up to date", path)
		return nil
	}
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("write dashboard script: %w", err)
	}
	logg.Infof("updated %s", path)
	return nil
}
