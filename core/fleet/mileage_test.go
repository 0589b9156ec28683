package fleet

import (
	"testing"
	"time"
)

func TestMilesInRangeConstantFleet(t *testing.T) {
	tl := NewTimeline([]Snapshot{{Date: day(2025, 7, 1), Count: ip(10)}}, 0)
	total, breakdown := MilesInRange(day(2025, 7, 1), day(2025, 7, 5), tl, 100, nil)
	if total != 5000 {
		t.Fatalf("total = %d, want 5000 (5 days x 10 vehicles x 100)", total)
	}
	if len(breakdown) != 5 {
		t.Fatalf("breakdown has %d days, want 5", len(breakdown))
	}
}

func TestMilesInRangeReversedIsZero(t *testing.T) {
	tl := NewTimeline(nil, 10)
	total, breakdown := MilesInRange(day(2025, 7, 10), day(2025, 7, 9), tl, 100, nil)
	if total != 0 || breakdown != nil {
		t.Fatalf("reversed range: total = %d breakdown = %v, want zero and empty", total, breakdown)
	}
}

func TestMilesInRangeAdditive(t *testing.T) {
	tl := NewTimeline([]Snapshot{
		{Date: day(2025, 6, 25), Count: ip(10)},
		{Date: day(2025, 7, 25), Count: ip(20)},
	}, 0)
	whole, _ := MilesInRange(day(2025, 6, 26), day(2025, 7, 20), tl, 100, nil)
	left, _ := MilesInRange(day(2025, 6, 26), day(2025, 7, 10), tl, 100, nil)
	right, _ := MilesInRange(day(2025, 7, 11), day(2025, 7, 20), tl, 100, nil)
	if left+right != whole {
		t.Fatalf("split ranges sum to %d, whole range is %d", left+right, whole)
	}
}

func TestMilesInRangeStoppageExcludesDays(t *testing.T) {
	tl := NewTimeline([]Snapshot{{Date: day(2025, 7, 1), Count: ip(10)}}, 0)
	stops := NewStoppageSet([]Stoppage{{Reason: "storm", Dates: []time.Time{day(2025, 7, 3)}}})

	total, breakdown := MilesInRange(day(2025, 7, 1), day(2025, 7, 5), tl, 100, stops)
	if total != 4000 {
		t.Fatalf("total = %d, want 4000 with one excluded day", total)
	}
	excluded := 0
	for _, b := range breakdown {
		if b.Excluded {
			excluded++
			if b.Miles != 0 {
				t.Fatalf("excluded day carries %d miles, want 0", b.Miles)
			}
			// Fleet size is still reported for the excluded day.
			if b.FleetSize != 10 {
				t.Fatalf("excluded day fleet size = %d, want 10", b.FleetSize)
			}
		}
	}
	if excluded != 1 {
		t.Fatalf("breakdown marks %d excluded days, want 1", excluded)
	}
}

func TestStoppageSetNilSafe(t *testing.T) {
	var s *StoppageSet
	if s.Excluded(day(2025, 7, 1)) {
		t.Fatal("nil set must exclude nothing")
	}
	if s.Len() != 0 || s.Groups() != nil {
		t.Fatal("nil set must be empty")
	}
}
