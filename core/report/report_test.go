package report

import (
	"strings"
	"testing"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
)

func sampleDoc() *analysis.Document {
	doc := &analysis.Document{RunID: "run-1"}
	doc.Incidents = []analysis.IncidentEntry{
		{IncidentIndex: 1, IncidentDate: "2025-07-10", MilesSincePrevious: 18500, MPISincePrevious: 18500},
	}
	doc.Summary = analysis.Summary{
		IncidentCount:     4,
		TotalMiles:        1234567,
		CumulativeMPI:     308641.75,
		LatestIntervalMPI: 18500,
	}
	r2 := 0.87
	dt := 45.2
	doc.TrendAnalysis = &analysis.TrendReport{
		BestModel: "exponential",
		BestFit:   &analysis.FitReport{Model: "exponential", RSquared: &r2, CurrentTrend: "improving"},
		AllModels: map[string]analysis.FitReport{
			"exponential": {Model: "exponential", DoublingTimeDays: &dt},
		},
	}
	return doc
}

func TestBuildRendersMetrics(t *testing.T) {
	now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	sum, err := Build(Input{Doc: sampleDoc(), TrackerURL: "https://example.org/tracker", Now: now})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if sum.Subject != "Robotaxi Safety Update - Aug 31, 2025" {
		t.Fatalf("subject = %q", sum.Subject)
	}
	for _, want := range []string{
		"18,500 miles/incident",
		"1,234,567",
		"308,641",
		"~45 days",
		"improving",
		"exponential",
		"0.870",
		"https://example.org/tracker",
	} {
		if !strings.Contains(sum.Text, want) {
			t.Fatalf("text summary missing %q:\n%s", want, sum.Text)
		}
	}
	if !strings.Contains(sum.HTML, "Robotaxi Safety Tracker") {
		t.Fatal("html summary missing title")
	}
	if !strings.Contains(sum.HTML, "18,500") {
		t.Fatal("html summary missing latest MPI")
	}
}

func TestBuildWithoutDataRendersFallback(t *testing.T) {
	sum, err := Build(Input{Doc: nil})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sum.Text, "Analysis data not available") {
		t.Fatalf("fallback text missing:\n%s", sum.Text)
	}
	if strings.Contains(sum.Text, "N/A miles/incident") {
		t.Fatal("metrics block must be omitted entirely without data")
	}
}

func TestBuildFleetAndDelta(t *testing.T) {
	in := Input{
		Doc:      sampleDoc(),
		Fleet:    &FleetStatus{Austin: 30, BayArea: 12},
		Previous: &PreviousRun{CumulativeMPI: 300000, IncidentCount: 4},
	}
	sum, err := Build(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sum.Text, "30 Austin (autonomous) + 12 Bay Area (w/ safety driver) = 42 total") {
		t.Fatalf("fleet line missing:\n%s", sum.Text)
	}
	if !strings.Contains(sum.Text, "Cumulative MPI is up 8,641 vs. the previous run.") {
		t.Fatalf("week-over-week line missing:\n%s", sum.Text)
	}
}

func TestCommas(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}
	for n, want := range cases {
		if got := commas(n); got != want {
			t.Fatalf("commas(%d) = %q, want %q", n, got, want)
		}
	}
}
