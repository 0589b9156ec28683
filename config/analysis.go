package config

import (
	"fmt"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
	"github.com/knhuang/robotaxi-safety-tracker/core/fleet"
)

// ScenarioConfig names an alternative daily-miles assumption.
type ScenarioConfig struct {
	Name       string `json:"name"`
	DailyMiles int    `json:"daily_miles"`
}

// AnalysisConfig carries the business assumptions of the MPI metric.
type AnalysisConfig struct {
	// ServiceStart is the first day of robotaxi service, YYYY-MM-DD.
	ServiceStart string `json:"service_start"`
	// DailyMiles is the assumed miles per vehicle per day.
	DailyMiles int `json:"daily_miles"`
	// DefaultFleetSize is assumed when no snapshot exists at all.
	DefaultFleetSize int `json:"default_fleet_size"`
	// ForecastHorizonDays extends the trend model past the last
	// incident.
	ForecastHorizonDays float64 `json:"forecast_horizon_days"`
	// MakeFilter keeps only incidents whose manufacturer contains this
	// string, case-insensitively.
	MakeFilter string           `json:"make_filter"`
	Scenarios  []ScenarioConfig `json:"scenarios"`
}

// SetDefaults applies the documented business defaults.
func (c *AnalysisConfig) SetDefaults() {
	if c.ServiceStart == "" {
		c.ServiceStart = "2025-06-25"
	}
	if c.DailyMiles <= 0 {
		c.DailyMiles = 100
	}
	if c.DefaultFleetSize <= 0 {
		c.DefaultFleetSize = fleet.DefaultSeedFleet
	}
	if c.ForecastHorizonDays <= 0 {
		c.ForecastHorizonDays = 30
	}
	if c.MakeFilter == "" {
		c.MakeFilter = "Tesla"
	}
	if len(c.Scenarios) == 0 {
		c.Scenarios = []ScenarioConfig{
			{Name: "conservative", DailyMiles: 50},
			{Name: "aggressive", DailyMiles: 150},
		}
	}
}

// Validate checks mandatory fields.
func (c AnalysisConfig) Validate() error {
	if _, err := time.Parse("2006-01-02", c.ServiceStart); err != nil {
		return fmt.Errorf("analysis.service_start: %w", err)
	}
	for _, s := range c.Scenarios {
		if s.DailyMiles <= 0 {
			return fmt.Errorf("analysis.scenarios[%s]: daily_miles must be positive", s.Name)
		}
	}
	return nil
}

// ServiceStartDate returns the parsed service start. Validate must have
// passed.
func (c AnalysisConfig) ServiceStartDate() time.Time {
	t, _ := time.Parse("2006-01-02", c.ServiceStart)
	return t
}

// RunnerConfig converts the section into the core runner's config.
func (c AnalysisConfig) RunnerConfig() analysis.Config {
	cfg := analysis.Config{
		ServiceStart:        c.ServiceStartDate(),
		DailyMiles:          c.DailyMiles,
		DefaultFleetSize:    c.DefaultFleetSize,
		ForecastHorizonDays: c.ForecastHorizonDays,
	}
	for _, s := range c.Scenarios {
		cfg.Scenarios = append(cfg.Scenarios, analysis.Scenario{Name: s.Name, DailyMiles: s.DailyMiles})
	}
	return cfg
}
