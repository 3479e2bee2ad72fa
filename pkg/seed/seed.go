// Package seed holds the built-in example streams offered on first run.
package seed

import (
	"context"
	"errors"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/store"
)

// Adder is the slice of the entry store seeding needs.
type Adder interface {
	All() []entry.Entry
	Add(ctx context.Context, e entry.Entry) error
}

// Records returns the compiled-in example streams. The slice is fresh on
// every call.
func Records() []entry.Entry {
	return []entry.Entry{
		{
			Link:        "https://www.youtube.com/watch?v=Zz5IPOjSZMY&t=1322s",
			Description: "2023 BlackRabbit AVP Open Malone/Young vs Klentzman/Liu",
			DateTime:    "2023-03-25 8:00 AM",
			City:        "Lewisville",
			State:       "TX",
			Latitude:    "33.015576",
			Longitude:   "-96.997158",
		},
		{
			Link:        "https://www.youtube.com/watch?v=32UHRVx5GhA",
			Description: "Amazing ICN (It's Called Normal) 3-on-3 Exhibition with Randy Stoklos and NYVarsity",
			DateTime:    "2023-09-4 12:00 PM",
			City:        "Aspen",
			State:       "CO",
			Latitude:    "39.161113",
			Longitude:   "-106.753560",
		},
		{
			Link:        "https://www.youtube.com/watch?v=PiiBVZYQXfU",
			Description: "2023 NCAA Championships FAU vs LSU",
			DateTime:    "2023-05-05 2:00 PM",
			City:        "Gulf Shores",
			State:       "AL",
			Latitude:    "30.2444009",
			Longitude:   "-87.7563601",
		},
		{
			Link:        "https://www.youtube.com/watch?v=113Pc5FMzog&pp=ygUbZXhoaWJpdGlvbiB0aHJlZXMgbnl2YXJzaXR5",
			Description: "2023 AVP MBO TaCrabb/Sander vs Budinger/Evans (8/19)",
			DateTime:    "2023-08-19 10:00 AM",
			City:        "Manhattan Beach",
			State:       "CA",
			Latitude:    "33.891599",
			Longitude:   "-118.395124",
		},
		{
			Link:        "https://www.youtube.com/watch?v=mUoJU1JWn1w",
			Description: "2023 Motherlode: Couts/G.Basey vs Del Sol/Hoover",
			DateTime:    "2023-09-4 3:00 PM",
			City:        "Aspen",
			State:       "CO",
			Latitude:    "39.191113",
			Longitude:   "-106.823560",
		},
		{
			Link:        "https://www.youtube.com/watch?v=jBqZ3RqQCDc",
			Description: "2023 Motherlode 45s Griffith/Young vs Sadler/Sass",
			DateTime:    "2023-08-31 2:00 PM",
			City:        "Aspen",
			State:       "CO",
			Latitude:    "39.1888327",
			Longitude:   "-106.8268543",
		},
		{
			Link:        "https://www.youtube.com/live/E2OgcoMcBpg?si=TQj1KFHXZIDcDrKI",
			Description: "2023 Motherlode Finals 50s Griffith/Young vs Lentin/Meador",
			DateTime:    "2023-08-30 4:00 PM",
			City:        "Aspen",
			State:       "CO",
			Latitude:    "39.1888327",
			Longitude:   "-106.8268543",
		},
		{
			Link:        "https://www.youtube.com/watch?v=hc_N3PCBEs4&t=676s",
			Description: "TAMU-CC vs TCU 1s",
			DateTime:    "2019-03-23 3:15 PM",
			City:        "Ft. Worth",
			State:       "TX",
			Latitude:    "32.708327",
			Longitude:   "-97.3662645",
		},
		{
			Link:        "https://www.youtube.com/watch?v=YDyWzEuZdAg",
			Description: "2023 CUSA Championship FAU vs FIU",
			DateTime:    "2023-04-29 3:00 PM",
			City:        "Ft. Lauderdale",
			State:       "FL",
			Latitude:    "26.1092371",
			Longitude:   "-80.1097871",
		},
	}
}

// Seed adds every record whose description is not already in the store,
// one at a time, calling after (if set) following each add. It returns the
// number of records added. A persistence failure does not stop seeding:
// the record stays live in memory and the first such error is returned
// alongside the count.
func Seed(ctx context.Context, s Adder, records []entry.Entry, after func()) (int, error) {
	added := 0
	var firstErr error
	for _, r := range records {
		if exists(s.All(), r.Description) {
			continue
		}
		if err := s.Add(ctx, r); err != nil {
			if !errors.Is(err, store.ErrPersistenceFailed) {
				return added, err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		added++
		if after != nil {
			after()
		}
	}
	return added, firstErr
}

func exists(entries []entry.Entry, description string) bool {
	for _, e := range entries {
		if e.Description == description {
			return true
		}
	}
	return false
}
