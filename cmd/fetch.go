package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knhuang/robotaxi-safety-tracker/config"
	"github.com/knhuang/robotaxi-safety-tracker/infra/fetch"
	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the latest NHTSA SGO incident data",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithLevel("fetch", cfg.Logging.Level)

	d := fetch.New(cfg.Sources.NHTSABaseURL, logg)
	ok, total := d.FetchAll(cmd.Context(), cfg.Sources.DataDir)
	if ok < total {
		return fmt.Errorf("downloaded %d of %d files", ok, total)
	}
	logg.Infof("downloaded all %d files to %s", total, cfg.Sources.DataDir)
	return nil
}
