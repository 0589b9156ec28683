package fleet

import (
	"sort"
	"time"
)

// DefaultSeedFleet is the assumed fleet size when a timeline has no
// observations at all. Carried over from the historical analysis so
// numeric output stays comparable across runs.
const DefaultSeedFleet = 25

// Snapshot is a dated observation of how many vehicles were in service
// for one fleet segment. Count is nil when the segment was not measured
// that day.
type Snapshot struct {
	Date  time.Time
	Count *int
}

// Timeline answers "how many vehicles were in service on day D" for one
// fleet segment by linear interpolation between known observations.
// It is immutable after construction.
type Timeline struct {
	points []point
	seed   int
}

type point struct {
	date  time.Time
	count int
}

// NewTimeline builds a timeline from raw snapshots. Snapshots without a
// count are dropped here, not at lookup time. Duplicate dates keep the
// last value loaded. A seed <= 0 falls back to DefaultSeedFleet.
func NewTimeline(snaps []Snapshot, seed int) *Timeline {
	if seed <= 0 {
		seed = DefaultSeedFleet
	}
	byDate := make(map[time.Time]int, len(snaps))
	for _, s := range snaps {
		if s.Count == nil {
			continue
		}
		byDate[Day(s.Date)] = *s.Count
	}
	points := make([]point, 0, len(byDate))
	for d, c := range byDate {
		points = append(points, point{date: d, count: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })
	return &Timeline{points: points, seed: seed}
}

// Len reports the number of usable observations.
func (t *Timeline) Len() int { return len(t.points) }

// Latest returns the most recent observation, or false when the
// timeline is empty.
func (t *Timeline) Latest() (time.Time, int, bool) {
	if len(t.points) == 0 {
		return time.Time{}, 0, false
	}
	p := t.points[len(t.points)-1]
	return p.date, p.count, true
}

// SizeAt estimates the fleet size on the given day. Dates before the
// earliest observation clamp to it, dates after the latest clamp to the
// latest; in between the count is linearly interpolated and truncated
// to an integer. Truncate, do not round: the historical metric was
// produced this way and rounding would shift every derived number.
func (t *Timeline) SizeAt(date time.Time) int {
	if len(t.points) == 0 {
		return t.seed
	}
	d := Day(date)
	i := sort.Search(len(t.points), func(i int) bool { return !t.points[i].date.Before(d) })
	if i == len(t.points) {
		return t.points[len(t.points)-1].count
	}
	if t.points[i].date.Equal(d) {
		return t.points[i].count
	}
	if i == 0 {
		return t.points[0].count
	}
	before, after := t.points[i-1], t.points[i]
	total := daysBetween(before.date, after.date)
	if total == 0 {
		return before.count
	}
	elapsed := daysBetween(before.date, d)
	diff := after.count - before.count
	return before.count + floorDiv(diff*elapsed, total)
}

// Day normalizes a timestamp to midnight UTC so calendar arithmetic is
// exact regardless of the time-of-day or zone the source carried.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// floorDiv divides rounding toward negative infinity. Counts are
// non-negative, so flooring the interpolation term matches truncating
// the interpolated sum.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
