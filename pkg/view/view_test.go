package view

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"tableflip.dev/streammap/pkg/entry"
)

func fixtures() []entry.Entry {
	return []entry.Entry{
		{Link: "https://a", Description: "Motherlode Finals", DateTime: "2023-08-30 4:00 PM", City: "Aspen", State: "CO", Latitude: "39.18", Longitude: "-106.82"},
		{Link: "https://b", Description: "NCAA Championships", DateTime: "2023-05-05 2:00 PM", City: "Gulf Shores", State: "AL"},
		{Link: "https://c", Description: "TCU 1s", DateTime: "2019-03-23 3:15 PM", City: "Ft. Worth", State: "TX", Latitude: "32.70", Longitude: "-97.36"},
		{Link: "https://d", Description: "Device fix", DateTime: "2023-09-4 12:00 PM", Latitude: "33.01", Longitude: "-96.99"},
	}
}

func randomEntries(r *rand.Rand, n int) []entry.Entry {
	words := []string{"aspen", "AVP", "Open", "tx", "Final", "", "co", "beach", "39.1", "-106"}
	pick := func() string { return words[r.Intn(len(words))] }
	out := make([]entry.Entry, n)
	for i := range out {
		out[i] = entry.Entry{
			Link:        "https://x/" + pick(),
			Description: pick() + " " + pick(),
			DateTime:    "2023-0" + string(rune('1'+r.Intn(9))) + "-1 1:00 PM",
			City:        pick(),
			State:       pick(),
			Latitude:    pick(),
			Longitude:   pick(),
		}
	}
	return out
}

func TestDefaultSortAndToggle(t *testing.T) {
	s := DefaultSort()
	if s.Key != entry.FieldDateTime || s.Direction != Descending {
		t.Fatalf("unexpected default sort %+v", s)
	}
	s = s.Toggle(entry.FieldDateTime)
	if s.Direction != Ascending {
		t.Fatalf("same column should flip to asc, got %s", s.Direction)
	}
	s = s.Toggle(entry.FieldCity)
	if s.Key != entry.FieldCity || s.Direction != Descending {
		t.Fatalf("new column should reset to desc, got %+v", s)
	}
	s = s.Toggle(entry.FieldCity).Toggle(entry.FieldCity)
	if s.Direction != Descending {
		t.Fatalf("double toggle should return to desc, got %s", s.Direction)
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	got := Filter(fixtures(), "ASPEN")
	if len(got) != 1 || got[0].Link != "https://a" {
		t.Fatalf("expected Aspen entry only, got %v", got)
	}
	if got := Filter(fixtures(), "gulf shores al"); len(got) != 1 {
		t.Fatalf("filter should match across joined values, got %d", len(got))
	}
	if got := Filter(fixtures(), "nowhere"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestFilterMonotonicity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		in := randomEntries(r, 1+r.Intn(12))
		needles := []string{"", "aspen", "AVP", "x/", "1:00", "-106", "zz"}
		needle := needles[r.Intn(len(needles))]
		out := Project(in, Sort{Key: entry.Fields[r.Intn(len(entry.Fields))], Direction: Ascending}, needle)
		if needle == "" && len(out) != len(in) {
			t.Fatalf("empty filter must keep all entries: %d vs %d", len(out), len(in))
		}
		for _, e := range out {
			if !strings.Contains(strings.ToLower(strings.Join(e.Values(), " ")), strings.ToLower(needle)) {
				t.Fatalf("entry %v does not contain %q", e, needle)
			}
		}
	}
}

func TestSortTotality(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		in := randomEntries(r, r.Intn(15))
		key := entry.Fields[r.Intn(len(entry.Fields))]
		for _, dir := range []Direction{Ascending, Descending} {
			out := Project(in, Sort{Key: key, Direction: dir}, "")
			for j := 1; j < len(out); j++ {
				a, b := out[j-1].Field(key), out[j].Field(key)
				if dir == Ascending && a > b {
					t.Fatalf("%s asc broken at %d: %q > %q", key, j, a, b)
				}
				if dir == Descending && a < b {
					t.Fatalf("%s desc broken at %d: %q < %q", key, j, a, b)
				}
			}
		}
	}
}

func TestSortIsStable(t *testing.T) {
	in := []entry.Entry{
		{Link: "1", Description: "same", City: "Aspen"},
		{Link: "2", Description: "same", City: "Aspen"},
		{Link: "3", Description: "same", City: "Aspen"},
	}
	for _, dir := range []Direction{Ascending, Descending} {
		out := Project(in, Sort{Key: entry.FieldCity, Direction: dir}, "")
		for i, e := range out {
			if e.Link != in[i].Link {
				t.Fatalf("ties must keep insertion order (%s), got %v", dir, out)
			}
		}
	}
}

func TestMissingFieldsSortAsEmpty(t *testing.T) {
	out := Project(fixtures(), Sort{Key: entry.FieldCity, Direction: Ascending}, "")
	if out[0].City != "" {
		t.Fatalf("entry without city should sort first ascending, got %q", out[0].City)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	in := fixtures()
	_ = Project(in, Sort{Key: entry.FieldDescription, Direction: Ascending}, "")
	if in[0].Link != "https://a" || in[3].Link != "https://d" {
		t.Fatalf("input slice was reordered")
	}
}

func TestDateTimeSortIsLexicographic(t *testing.T) {
	// "2023-09-4" sorts after "2023-09-30" as a string; this documents the
	// display-string behavior of the dateTime key.
	in := []entry.Entry{
		{Link: "a", Description: "a", DateTime: "2023-09-30 1:00 PM"},
		{Link: "b", Description: "b", DateTime: "2023-09-4 1:00 PM"},
	}
	out := Project(in, Sort{Key: entry.FieldDateTime, Direction: Descending}, "")
	if out[0].Link != "b" {
		t.Fatalf("expected lexicographic order, got %v", out)
	}
	out = Project(in, Sort{Key: KeyCreated, Direction: Descending}, "")
	if out[0].Link != "a" {
		t.Fatalf("expected chronological order for %s, got %v", KeyCreated, out)
	}
}

func TestCreatedPrefersCanonicalTimestamp(t *testing.T) {
	older := entry.New("https://old", "old", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	newer := entry.New("https://new", "new", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	// Same display string, different canonical times.
	older.DateTime, newer.DateTime = "x", "x"
	undated := entry.Entry{Link: "https://none", Description: "none", DateTime: "garbage"}

	out := Project([]entry.Entry{undated, older, newer}, Sort{Key: KeyCreated, Direction: Ascending}, "")
	if out[0].Link != "https://old" || out[1].Link != "https://new" || out[2].Link != "https://none" {
		t.Fatalf("unexpected chronological order %v", out)
	}
}

func TestProjectorState(t *testing.T) {
	p := NewProjector()
	p.SetFilter("aspen")
	if got := p.Project(fixtures()); len(got) != 1 {
		t.Fatalf("expected 1 entry through projector, got %d", len(got))
	}
	if s := p.Toggle(entry.FieldState); s.Key != entry.FieldState || s.Direction != Descending {
		t.Fatalf("unexpected toggle result %+v", s)
	}
	p.SetFilter("")
	got := p.Project(fixtures())
	if got[0].State != "TX" {
		t.Fatalf("expected TX first in state desc, got %q", got[0].State)
	}
}

func TestValidKeyAndParseDirection(t *testing.T) {
	if !ValidKey("latitude") || !ValidKey(KeyCreated) || ValidKey("bogus") {
		t.Fatalf("unexpected ValidKey results")
	}
	if ParseDirection("ASC") != Ascending || ParseDirection("whatever") != Descending {
		t.Fatalf("unexpected ParseDirection results")
	}
}
