// Package store persists a summary row per analysis run so the weekly
// report can show week-over-week movement.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// RunRow is one persisted run summary.
type RunRow struct {
	RunID             string
	AnalysisDate      string
	IncidentCount     int
	TotalMiles        int
	CumulativeMPI     float64
	LatestIntervalMPI int
	BestModel         string
	RSquared          sql.NullFloat64
	PredictedMPI      sql.NullFloat64
}

// SQLiteStore keeps run history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS analysis_runs (
        run_id TEXT PRIMARY KEY,
        analysis_date TEXT NOT NULL,
        incident_count INTEGER NOT NULL,
        total_miles INTEGER NOT NULL,
        cumulative_mpi REAL NOT NULL,
        latest_interval_mpi INTEGER NOT NULL,
        best_model TEXT,
        r_squared REAL,
        predicted_mpi REAL
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts the run summary. Re-running with the same run ID updates
// the row.
func (s *SQLiteStore) Add(r RunRow) error {
	_, err := s.db.Exec(`INSERT INTO analysis_runs
        (run_id, analysis_date, incident_count, total_miles, cumulative_mpi,
         latest_interval_mpi, best_model, r_squared, predicted_mpi)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id) DO UPDATE SET
            analysis_date = excluded.analysis_date,
            incident_count = excluded.incident_count,
            total_miles = excluded.total_miles,
            cumulative_mpi = excluded.cumulative_mpi,
            latest_interval_mpi = excluded.latest_interval_mpi,
            best_model = excluded.best_model,
            r_squared = excluded.r_squared,
            predicted_mpi = excluded.predicted_mpi`,
		r.RunID, r.AnalysisDate, r.IncidentCount, r.TotalMiles, r.CumulativeMPI,
		r.LatestIntervalMPI, r.BestModel, r.RSquared, r.PredictedMPI)
	return err
}

// Recent returns the most recent n runs, newest first.
func (s *SQLiteStore) Recent(n int) ([]RunRow, error) {
	if n <= 0 {
		return nil, fmt.Errorf("recent: n must be positive")
	}
	rows, err := s.db.Query(`SELECT run_id, analysis_date, incident_count,
        total_miles, cumulative_mpi, latest_interval_mpi, best_model,
        r_squared, predicted_mpi
        FROM analysis_runs ORDER BY analysis_date DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []RunRow
	for rows.Next() {
		var r RunRow
		var bestModel sql.NullString
		if err := rows.Scan(&r.RunID, &r.AnalysisDate, &r.IncidentCount,
			&r.TotalMiles, &r.CumulativeMPI, &r.LatestIntervalMPI,
			&bestModel, &r.RSquared, &r.PredictedMPI); err != nil {
			return nil, err
		}
		r.BestModel = bestModel.String
		res = append(res, r)
	}
	return res, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
