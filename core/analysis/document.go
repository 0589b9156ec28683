// Package analysis assembles the single result document the reporting
// collaborators consume. Its JSON schema is the pipeline's only public
// contract and must stay stable across runs.
package analysis

// DateFormat is the calendar-day format used throughout the document.
const DateFormat = "2006-01-02"

// IncidentEntry is one interval record: the span ending at this
// incident plus the running cumulative metric.
type IncidentEntry struct {
	IncidentIndex       int     `json:"incident_index"`
	IncidentDate        string  `json:"incident_date"`
	DaysSincePrevious   int     `json:"days_since_previous"`
	MilesSincePrevious  int     `json:"miles_since_previous"`
	MPISincePrevious    int     `json:"mpi_since_previous"`
	AvgFleetSize        float64 `json:"avg_fleet_size"`
	CumulativeMiles     int     `json:"cumulative_miles"`
	CumulativeIncidents int     `json:"cumulative_incidents"`
	CumulativeMPI       float64 `json:"cumulative_mpi"`
	// Present only when a stoppage excluded at least one day.
	ExcludedDays int  `json:"excluded_days,omitempty"`
	ActiveDays   *int `json:"active_days,omitempty"`
}

// FitReport describes one candidate model's outcome. A failed fit
// carries only Model and Error.
type FitReport struct {
	Model            string   `json:"model"`
	Slope            *float64 `json:"slope,omitempty"`
	Intercept        *float64 `json:"intercept,omitempty"`
	Amplitude        *float64 `json:"amplitude,omitempty"`
	RatePerDay       *float64 `json:"rate_per_day,omitempty"`
	RSquared         *float64 `json:"r_squared,omitempty"`
	CurrentTrend     string   `json:"current_trend,omitempty"`
	DoublingTimeDays *float64 `json:"doubling_time_days,omitempty"`
	HalvingTimeDays  *float64 `json:"halving_time_days,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// TrendReport collects every model outcome and names the best one.
type TrendReport struct {
	BestModel string               `json:"best_model,omitempty"`
	BestFit   *FitReport           `json:"best_fit,omitempty"`
	AllModels map[string]FitReport `json:"all_models"`
}

// ForecastReport is the projected MPI at the configured horizon.
type ForecastReport struct {
	HorizonDays    float64 `json:"horizon_days"`
	PredictedMPI   float64 `json:"predicted_mpi"`
	TrendDirection string  `json:"trend_direction"`
}

// Summary aggregates one segment's interval series.
type Summary struct {
	IncidentCount      int     `json:"incident_count"`
	TotalMiles         int     `json:"total_miles"`
	CumulativeMPI      float64 `json:"cumulative_mpi"`
	AverageIntervalMPI float64 `json:"average_interval_mpi"`
	LatestIntervalMPI  int     `json:"latest_interval_mpi"`
	TotalExcludedDays  int     `json:"total_excluded_days"`
}

// SegmentReport is the full output for one fleet segment.
type SegmentReport struct {
	Segment       string          `json:"segment,omitempty"`
	Incidents     []IncidentEntry `json:"incidents"`
	TrendAnalysis *TrendReport    `json:"trend_analysis,omitempty"`
	Forecast      *ForecastReport `json:"forecast,omitempty"`
	Summary       Summary         `json:"summary"`
}

// StoppageEntry reports one service stoppage group.
type StoppageEntry struct {
	Reason string   `json:"reason"`
	Dates  []string `json:"dates"`
}

// ScenarioResult is the headline metric under an alternative
// daily-miles assumption.
type ScenarioResult struct {
	Name          string  `json:"name"`
	DailyMiles    int     `json:"daily_miles"`
	TotalMiles    int     `json:"estimated_total_miles"`
	CumulativeMPI float64 `json:"miles_per_incident"`
}

// Document is the complete result of one analysis run. The primary
// (total-fleet) segment is inlined at the top level; the active-fleet
// segment, when available, nests under active_fleet.
type Document struct {
	RunID                string `json:"run_id"`
	AnalysisDate         string `json:"analysis_date"`
	ServiceStart         string `json:"service_start"`
	DailyMilesAssumption int    `json:"daily_miles_assumption"`
	DefaultFleetSize     int    `json:"default_fleet_size"`
	DroppedIncidents     int    `json:"dropped_incidents"`

	SegmentReport

	ActiveFleet      *SegmentReport   `json:"active_fleet,omitempty"`
	ServiceStoppages []StoppageEntry  `json:"service_stoppages"`
	Scenarios        []ScenarioResult `json:"scenarios,omitempty"`
}
