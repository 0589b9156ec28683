package fleet

import "time"

// Stoppage is a group of calendar days on which the fleet was known to
// be fully offline, with the operator's stated reason.
type Stoppage struct {
	Reason string
	Dates  []time.Time
}

// StoppageSet is the union of all stoppages' days. The grouped list is
// retained only for reporting; the set is what the mileage math uses.
type StoppageSet struct {
	groups []Stoppage
	days   map[time.Time]struct{}
}

// NewStoppageSet flattens the grouped stoppages into one excluded-day
// set. An empty or nil list is valid and excludes nothing.
func NewStoppageSet(groups []Stoppage) *StoppageSet {
	s := &StoppageSet{groups: groups, days: make(map[time.Time]struct{})}
	for _, g := range groups {
		for _, d := range g.Dates {
			s.days[Day(d)] = struct{}{}
		}
	}
	return s
}

// Excluded reports whether the given day contributes zero miles.
func (s *StoppageSet) Excluded(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.days[Day(date)]
	return ok
}

// Groups returns the stoppages as loaded, for reporting.
func (s *StoppageSet) Groups() []Stoppage {
	if s == nil {
		return nil
	}
	return s.groups
}

// Len reports the number of distinct excluded days.
func (s *StoppageSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.days)
}
