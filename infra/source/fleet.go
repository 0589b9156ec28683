// Package source loads the pipeline's flat-file inputs: NHTSA incident
// CSVs, fleet snapshot JSON, service stoppages and subscriber lists.
// Loaders tolerate missing files and bad rows: they drop, count and
// report rather than fail, because the upstream scrapers routinely
// produce incomplete data.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/fleet"
)

// SnapshotRow mirrors one entry of fleet_data.json. Counts are nil when
// the scraper did not observe that segment on that day.
type SnapshotRow struct {
	Date          string `json:"date"`
	TotalRobotaxi *int   `json:"total_robotaxi"`
	Austin        *int   `json:"austin_vehicles"`
	AustinActive  *int   `json:"austin_active_vehicles"`
	BayArea       *int   `json:"bayarea_vehicles"`
}

// FleetData is the parsed snapshot file plus the number of rows dropped
// for unparseable dates.
type FleetData struct {
	Snapshots   []SnapshotRow
	DroppedRows int
}

type fleetFile struct {
	Snapshots []SnapshotRow `json:"snapshots"`
}

// LoadFleetData reads fleet_data.json. A missing file yields empty data
// and no error: an empty timeline is a valid degenerate state the
// default-fleet-size fallback exists for.
func LoadFleetData(path string) (*FleetData, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &FleetData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fleet data: %w", err)
	}
	var f fleetFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fleet data: %w", err)
	}
	data := &FleetData{}
	for _, row := range f.Snapshots {
		if _, err := time.Parse("2006-01-02", row.Date); err != nil {
			data.DroppedRows++
			continue
		}
		data.Snapshots = append(data.Snapshots, row)
	}
	return data, nil
}

// TotalTimeline builds the total-fleet timeline. The dedicated
// total_robotaxi count wins; austin_vehicles is the historical
// fallback.
func (d *FleetData) TotalTimeline(seed int) *fleet.Timeline {
	snaps := make([]fleet.Snapshot, 0, len(d.Snapshots))
	for _, row := range d.Snapshots {
		count := row.TotalRobotaxi
		if count == nil {
			count = row.Austin
		}
		snaps = append(snaps, fleet.Snapshot{Date: mustDate(row.Date), Count: count})
	}
	return fleet.NewTimeline(snaps, seed)
}

// ActiveTimeline builds the active-fleet timeline, or nil when no row
// ever measured the active segment.
func (d *FleetData) ActiveTimeline(seed int) *fleet.Timeline {
	snaps := make([]fleet.Snapshot, 0, len(d.Snapshots))
	any := false
	for _, row := range d.Snapshots {
		if row.AustinActive != nil {
			any = true
		}
		snaps = append(snaps, fleet.Snapshot{Date: mustDate(row.Date), Count: row.AustinActive})
	}
	if !any {
		return nil
	}
	return fleet.NewTimeline(snaps, seed)
}

// LatestCounts returns the most recent row, for reporting.
func (d *FleetData) LatestCounts() (SnapshotRow, bool) {
	if len(d.Snapshots) == 0 {
		return SnapshotRow{}, false
	}
	return d.Snapshots[len(d.Snapshots)-1], true
}

// mustDate is safe here: LoadFleetData already dropped unparseable
// dates.
func mustDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}
