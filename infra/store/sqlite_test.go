package store

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestAddAndRecent(t *testing.T) {
	st := openTestStore(t)
	rows := []RunRow{
		{RunID: "a", AnalysisDate: "2025-08-17T06:00:00Z", IncidentCount: 6, TotalMiles: 90000, CumulativeMPI: 15000},
		{RunID: "b", AnalysisDate: "2025-08-24T06:00:00Z", IncidentCount: 7, TotalMiles: 112000, CumulativeMPI: 16000,
			BestModel: "exponential", RSquared: sql.NullFloat64{Float64: 0.9, Valid: true}},
		{RunID: "c", AnalysisDate: "2025-08-31T06:00:00Z", IncidentCount: 7, TotalMiles: 126000, CumulativeMPI: 18000},
	}
	for _, r := range rows {
		if err := st.Add(r); err != nil {
			t.Fatalf("add %s: %v", r.RunID, err)
		}
	}

	got, err := st.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].RunID != "c" || got[1].RunID != "b" {
		t.Fatalf("order = %s, %s; want newest first", got[0].RunID, got[1].RunID)
	}
	if got[1].BestModel != "exponential" || !got[1].RSquared.Valid {
		t.Fatalf("row b lost fit fields: %+v", got[1])
	}
	if got[0].RSquared.Valid || got[0].PredictedMPI.Valid {
		t.Fatalf("row c grew fit fields: %+v", got[0])
	}
}

func TestAddUpsertsOnRunID(t *testing.T) {
	st := openTestStore(t)
	if err := st.Add(RunRow{RunID: "a", AnalysisDate: "2025-08-31T06:00:00Z", IncidentCount: 5}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.Add(RunRow{RunID: "a", AnalysisDate: "2025-08-31T07:00:00Z", IncidentCount: 6}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	got, err := st.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows after upsert, want 1", len(got))
	}
	if got[0].IncidentCount != 6 {
		t.Fatalf("upsert kept stale count %d", got[0].IncidentCount)
	}
}

func TestRecentRequiresPositiveN(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.Recent(0); err == nil {
		t.Fatal("expected error for n = 0")
	}
}
