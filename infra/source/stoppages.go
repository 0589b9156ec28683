package source

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/fleet"
)

type stoppageFile struct {
	Stoppages []stoppageRow `json:"stoppages"`
}

type stoppageRow struct {
	Reason string   `json:"reason"`
	Dates  []string `json:"dates"`
}

// LoadStoppages reads the service-stoppage groups. A missing file means
// no stoppages. Unparseable dates within a group are dropped and
// counted; the group itself survives.
func LoadStoppages(path string) ([]fleet.Stoppage, int, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read stoppages: %w", err)
	}
	var f stoppageFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, 0, fmt.Errorf("parse stoppages: %w", err)
	}
	var groups []fleet.Stoppage
	dropped := 0
	for _, row := range f.Stoppages {
		g := fleet.Stoppage{Reason: row.Reason}
		for _, ds := range row.Dates {
			d, err := time.Parse("2006-01-02", ds)
			if err != nil {
				dropped++
				continue
			}
			g.Dates = append(g.Dates, d)
		}
		groups = append(groups, g)
	}
	return groups, dropped, nil
}
