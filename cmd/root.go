package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Robotaxi safety statistics pipeline",
	Long: `tracker assembles public safety statistics for an autonomous-vehicle
fleet: it loads NHTSA incident reports and fleet-size snapshots,
computes miles-per-incident, fits a trend model and feeds the weekly
report.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
