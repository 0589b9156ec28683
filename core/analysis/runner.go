package analysis

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/knhuang/robotaxi-safety-tracker/core/fleet"
	"github.com/knhuang/robotaxi-safety-tracker/core/incident"
	"github.com/knhuang/robotaxi-safety-tracker/core/logger"
	"github.com/knhuang/robotaxi-safety-tracker/core/trend"
)

// Scenario names an alternative daily-miles assumption to sweep.
type Scenario struct {
	Name       string
	DailyMiles int
}

// Config carries the caller-supplied knobs. The core takes no flags or
// environment variables of its own.
type Config struct {
	ServiceStart        time.Time
	DailyMiles          int
	DefaultFleetSize    int
	ForecastHorizonDays float64
	Scenarios           []Scenario
}

// Inputs is everything a run reads. Empty collections are valid
// degenerate states, not errors.
type Inputs struct {
	Incidents        []incident.Record
	DroppedIncidents int
	TotalFleet       *fleet.Timeline
	ActiveFleet      *fleet.Timeline
	Stoppages        *fleet.StoppageSet
}

// Run computes the full result document, deterministically and entirely
// in memory. Missing data degrades sections to explicit absences; Run
// itself never fails.
func Run(cfg Config, in Inputs, log logger.Logger) *Document {
	if cfg.DailyMiles <= 0 {
		cfg.DailyMiles = 100
	}
	if in.TotalFleet == nil {
		in.TotalFleet = fleet.NewTimeline(nil, cfg.DefaultFleetSize)
	}

	doc := &Document{
		RunID:                uuid.NewString(),
		AnalysisDate:         time.Now().UTC().Format(time.RFC3339),
		ServiceStart:         fleet.Day(cfg.ServiceStart).Format(DateFormat),
		DailyMilesAssumption: cfg.DailyMiles,
		DefaultFleetSize:     cfg.DefaultFleetSize,
		DroppedIncidents:     in.DroppedIncidents,
		ServiceStoppages:     stoppageEntries(in.Stoppages),
	}
	if doc.DefaultFleetSize <= 0 {
		doc.DefaultFleetSize = fleet.DefaultSeedFleet
	}

	doc.SegmentReport = runSegment("total", cfg, in.Incidents, in.TotalFleet, in.Stoppages, cfg.DailyMiles, log)
	if in.ActiveFleet != nil {
		seg := runSegment("active", cfg, in.Incidents, in.ActiveFleet, in.Stoppages, cfg.DailyMiles, log)
		doc.ActiveFleet = &seg
	}

	for _, sc := range cfg.Scenarios {
		if sc.DailyMiles <= 0 || sc.DailyMiles == cfg.DailyMiles {
			continue
		}
		ivs := incident.ComputeIntervals(in.Incidents, in.TotalFleet, in.Stoppages, sc.DailyMiles, cfg.ServiceStart)
		res := ScenarioResult{Name: sc.Name, DailyMiles: sc.DailyMiles}
		if len(ivs) > 0 {
			last := ivs[len(ivs)-1]
			res.TotalMiles = last.CumulativeMiles
			res.CumulativeMPI = last.CumulativeMPI
		}
		doc.Scenarios = append(doc.Scenarios, res)
	}
	return doc
}

func runSegment(name string, cfg Config, recs []incident.Record, tl *fleet.Timeline, stops *fleet.StoppageSet, dailyMiles int, log logger.Logger) SegmentReport {
	seg := SegmentReport{Segment: name, Incidents: []IncidentEntry{}}

	intervals := incident.ComputeIntervals(recs, tl, stops, dailyMiles, cfg.ServiceStart)
	if len(intervals) == 0 {
		log.Warnf("segment %s: no qualifying incidents, skipping trend analysis", name)
		return seg
	}

	points := make([]trend.Point, len(intervals))
	intervalMPIs := make([]float64, len(intervals))
	excluded := 0
	start := fleet.Day(cfg.ServiceStart)
	for i, iv := range intervals {
		seg.Incidents = append(seg.Incidents, toEntry(iv))
		points[i] = trend.Point{
			T:   float64(iv.IncidentDate.Sub(start) / (24 * time.Hour)),
			MPI: float64(iv.MPISincePrevious()),
		}
		intervalMPIs[i] = float64(iv.MPISincePrevious())
		excluded += iv.ExcludedDays
	}

	last := intervals[len(intervals)-1]
	seg.Summary = Summary{
		IncidentCount:      last.CumulativeIncidents,
		TotalMiles:         last.CumulativeMiles,
		CumulativeMPI:      last.CumulativeMPI,
		AverageIntervalMPI: stat.Mean(intervalMPIs, nil),
		LatestIntervalMPI:  last.MPISincePrevious(),
		TotalExcludedDays:  excluded,
	}

	res := trend.Analyze(points)
	seg.TrendAnalysis = trendReport(res)
	if fc, err := res.Forecast(cfg.ForecastHorizonDays); err != nil {
		log.Warnf("segment %s: forecast unavailable: %v", name, err)
	} else {
		seg.Forecast = &ForecastReport{
			HorizonDays:    fc.HorizonDays,
			PredictedMPI:   fc.PredictedMPI,
			TrendDirection: fc.Direction,
		}
	}
	return seg
}

func trendReport(res trend.Result) *TrendReport {
	tr := &TrendReport{AllModels: map[string]FitReport{
		trend.ModelLinear:      fitReport(trend.ModelLinear, res.Linear, res.LinearErr),
		trend.ModelExponential: fitReport(trend.ModelExponential, res.Exponential, res.ExponentialErr),
	}}
	if res.Best != nil {
		best := fitReport(res.Best.Kind, res.Best, nil)
		tr.BestModel = res.Best.Kind
		tr.BestFit = &best
	}
	return tr
}

func fitReport(kind string, f *trend.Fit, err error) FitReport {
	if f == nil {
		msg := "no fit"
		if err != nil {
			msg = err.Error()
		}
		return FitReport{Model: kind, Error: msg}
	}
	r := FitReport{Model: f.Kind}
	switch f.Kind {
	case trend.ModelExponential:
		r.Amplitude = ptr(f.Amplitude)
		r.RatePerDay = ptr(f.Rate)
		if f.DoublingTimeDays > 0 {
			r.DoublingTimeDays = ptr(f.DoublingTimeDays)
		}
		if f.HalvingTimeDays > 0 {
			r.HalvingTimeDays = ptr(f.HalvingTimeDays)
		}
	default:
		r.Slope = ptr(f.Slope)
		r.Intercept = ptr(f.Intercept)
	}
	if !math.IsNaN(f.RSquared) {
		r.RSquared = ptr(f.RSquared)
	}
	if f.Improving() {
		r.CurrentTrend = "improving"
	} else {
		r.CurrentTrend = "worsening"
	}
	return r
}

func toEntry(iv incident.Interval) IncidentEntry {
	e := IncidentEntry{
		IncidentIndex:       iv.Index,
		IncidentDate:        iv.IncidentDate.Format(DateFormat),
		DaysSincePrevious:   iv.DaysSincePrevious,
		MilesSincePrevious:  iv.MilesSincePrevious,
		MPISincePrevious:    iv.MPISincePrevious(),
		AvgFleetSize:        iv.AvgFleetSize,
		CumulativeMiles:     iv.CumulativeMiles,
		CumulativeIncidents: iv.CumulativeIncidents,
		CumulativeMPI:       iv.CumulativeMPI,
	}
	if iv.ExcludedDays > 0 {
		e.ExcludedDays = iv.ExcludedDays
		e.ActiveDays = ptr(iv.ActiveDays)
	}
	return e
}

func stoppageEntries(stops *fleet.StoppageSet) []StoppageEntry {
	entries := []StoppageEntry{}
	for _, g := range stops.Groups() {
		e := StoppageEntry{Reason: g.Reason}
		for _, d := range g.Dates {
			e.Dates = append(e.Dates, fleet.Day(d).Format(DateFormat))
		}
		entries = append(entries, e)
	}
	return entries
}

func ptr[T any](v T) *T { return &v }
