package source

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadStoppages(t *testing.T) {
	path := writeTemp(t, "service_stoppages.json", `{
	  "stoppages": [
	    {"reason": "software recall", "dates": ["2025-07-05", "bogus", "2025-07-06"]}
	  ]
	}`)
	groups, dropped, err := LoadStoppages(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(groups) != 1 || groups[0].Reason != "software recall" {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups[0].Dates) != 2 {
		t.Fatalf("group kept %d dates, want 2", len(groups[0].Dates))
	}
	if !groups[0].Dates[0].Equal(time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first date = %s", groups[0].Dates[0])
	}
}

func TestLoadStoppagesMissingFile(t *testing.T) {
	groups, dropped, err := LoadStoppages(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil || groups != nil || dropped != 0 {
		t.Fatalf("missing file: groups=%v dropped=%d err=%v", groups, dropped, err)
	}
}

func TestLoadSubscribers(t *testing.T) {
	path := writeTemp(t, "subscribers.json", `{"subscribers": ["a@example.org", "b@example.org"]}`)
	subs, err := LoadSubscribers(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(subs) != 2 || subs[0] != "a@example.org" {
		t.Fatalf("subscribers = %v", subs)
	}

	none, err := LoadSubscribers(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil || none != nil {
		t.Fatalf("missing file: %v %v", none, err)
	}
}
