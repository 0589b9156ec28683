package fleet

import "time"

// DayMileage is one day's contribution to an interval: the estimated
// fleet size, the miles attributed, and whether the day was excluded by
// a service stoppage.
type DayMileage struct {
	Date      time.Time
	FleetSize int
	Miles     int
	Excluded  bool
}

// MilesInRange sums estimated miles over every calendar day from start
// to end inclusive. Excluded days contribute zero miles regardless of
// fleet size. A start after end yields zero miles and an empty
// breakdown, which is the legitimate shape of a same-day incident
// cluster. The function is pure: same inputs, same output, no side
// effects.
func MilesInRange(start, end time.Time, tl *Timeline, dailyMiles int, stops *StoppageSet) (int, []DayMileage) {
	startDay, endDay := Day(start), Day(end)
	if startDay.After(endDay) {
		return 0, nil
	}
	total := 0
	breakdown := make([]DayMileage, 0, daysBetween(startDay, endDay)+1)
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		size := tl.SizeAt(d)
		dm := DayMileage{Date: d, FleetSize: size}
		if stops.Excluded(d) {
			dm.Excluded = true
		} else {
			dm.Miles = size * dailyMiles
		}
		total += dm.Miles
		breakdown = append(breakdown, dm)
	}
	return total, breakdown
}
