package incident

import (
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/fleet"
)

// ComputeIntervals partitions time from serviceStart into consecutive
// incident-to-incident intervals and attributes estimated mileage to
// each. Incidents before serviceStart are dropped, not errored. The
// returned slice is empty when no incident qualifies.
//
// Each interval accumulates the days (prev, incident] so consecutive
// intervals tile the calendar without double-counting the boundary day;
// a second incident on the same date therefore produces a zero-day,
// zero-mile interval, which is intentional and must not be smoothed
// away here.
func ComputeIntervals(recs []Record, tl *fleet.Timeline, stops *fleet.StoppageSet, dailyMiles int, serviceStart time.Time) []Interval {
	start := fleet.Day(serviceStart)
	qualifying := make([]Record, 0, len(recs))
	for _, r := range recs {
		if !fleet.Day(r.Date).Before(start) {
			qualifying = append(qualifying, r)
		}
	}
	SortByDate(qualifying)
	if len(qualifying) == 0 {
		return nil
	}

	intervals := make([]Interval, 0, len(qualifying))
	prev := start
	cumMiles, cumCount := 0, 0
	for i, r := range qualifying {
		date := fleet.Day(r.Date)
		miles, breakdown := fleet.MilesInRange(prev.AddDate(0, 0, 1), date, tl, dailyMiles, stops)
		days := int(date.Sub(prev) / (24 * time.Hour))

		avg := 0.0
		excluded := 0
		if len(breakdown) > 0 {
			sum := 0
			for _, b := range breakdown {
				sum += b.FleetSize
				if b.Excluded {
					excluded++
				}
			}
			avg = float64(sum) / float64(len(breakdown))
		}

		cumMiles += miles
		cumCount++
		iv := Interval{
			Index:               i + 1,
			IncidentDate:        date,
			DaysSincePrevious:   days,
			MilesSincePrevious:  miles,
			AvgFleetSize:        avg,
			CumulativeMiles:     cumMiles,
			CumulativeIncidents: cumCount,
			CumulativeMPI:       float64(cumMiles) / float64(cumCount),
		}
		if excluded > 0 {
			iv.ExcludedDays = excluded
			iv.ActiveDays = days - excluded
		}
		intervals = append(intervals, iv)
		prev = date
	}
	return intervals
}
