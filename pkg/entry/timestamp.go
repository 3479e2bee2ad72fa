package entry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layouts seen in stored dateTime strings, newest first. Seed records use
// single digit days ("2023-09-4 12:00 PM").
var displayLayouts = []string{
	DisplayLayout,
	"2006-01-2 3:04 PM",
	"1/2/2006, 3:04:05 PM",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseTime parses a canonical timestamp.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseDisplay makes a best effort to read a dateTime display string.
func ParseDisplay(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range displayLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Timestamp is a canonical, machine sortable creation time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	if timestamp == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	t.Time, err = ParseTime(timestamp)
	return err
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
