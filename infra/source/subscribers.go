package source

import (
	"encoding/json"
	"fmt"
	"os"
)

type subscriberFile struct {
	Subscribers []string `json:"subscribers"`
}

// LoadSubscribers reads the weekly-update recipient list. A missing
// file means nobody subscribed yet.
func LoadSubscribers(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read subscribers: %w", err)
	}
	var f subscriberFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse subscribers: %w", err)
	}
	return f.Subscribers, nil
}
