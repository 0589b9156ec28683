package config

import (
	"fmt"
	"path/filepath"
)

// SourcesConfig locates every input and output file. Relative paths
// resolve against DataDir.
type SourcesConfig struct {
	DataDir         string `json:"data_dir"`
	FleetFile       string `json:"fleet_file"`
	StoppagesFile   string `json:"stoppages_file"`
	ADSFile         string `json:"ads_file"`
	ADASFile        string `json:"adas_file"`
	ADSArchiveFile  string `json:"ads_archive_file"`
	ADASArchiveFile string `json:"adas_archive_file"`
	SubscribersFile string `json:"subscribers_file"`
	ResultsFile     string `json:"results_file"`
	AppJSFile       string `json:"appjs_file"`
	HistoryDB       string `json:"history_db"`
	NHTSABaseURL    string `json:"nhtsa_base_url"`
	TrackerURL      string `json:"tracker_url"`
}

// SetDefaults mirrors the historical data directory layout.
func (c *SourcesConfig) SetDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.FleetFile == "" {
		c.FleetFile = "fleet_data.json"
	}
	if c.StoppagesFile == "" {
		c.StoppagesFile = "service_stoppages.json"
	}
	if c.ADSFile == "" {
		c.ADSFile = "SGO-2021-01_Incident_Reports_ADS.csv"
	}
	if c.ADASFile == "" {
		c.ADASFile = "SGO-2021-01_Incident_Reports_ADAS.csv"
	}
	if c.ADSArchiveFile == "" {
		c.ADSArchiveFile = filepath.Join("archive", "SGO-2021-01_Incident_Reports_ADS_archive.csv")
	}
	if c.ADASArchiveFile == "" {
		c.ADASArchiveFile = filepath.Join("archive", "SGO-2021-01_Incident_Reports_ADAS_archive.csv")
	}
	if c.SubscribersFile == "" {
		c.SubscribersFile = "subscribers.json"
	}
	if c.ResultsFile == "" {
		c.ResultsFile = "analysis_results.json"
	}
	if c.AppJSFile == "" {
		c.AppJSFile = filepath.Join("..", "docs", "app.js")
	}
}

// Validate checks mandatory fields.
func (c SourcesConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("sources.data_dir is required")
	}
	return nil
}

// Resolve joins a configured path with DataDir unless it is absolute.
func (c SourcesConfig) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
