package entry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJSONRoundTripPreservesPresence(t *testing.T) {
	at := time.Date(2024, time.March, 9, 18, 30, 15, 123456789, time.UTC)
	full := New("https://example.com/a", "Final", at)
	full.City = "Aspen"
	full.State = "CO"
	full.Latitude = "39.161113"
	full.Longitude = "-106.753560"

	bare := Entry{Link: "https://example.com/b", Description: "Bare", DateTime: "2023-09-4 3:00 PM"}

	for _, want := range []Entry{full, bare} {
		b, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got Entry
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, want)
		}
		if (got.Created == nil) != (want.Created == nil) {
			t.Fatalf("created presence changed for %q", want.Description)
		}
	}
}

func TestOptionalFieldsOmitted(t *testing.T) {
	b, err := json.Marshal(Entry{Link: "l", Description: "d", DateTime: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"link":"l","description":"d","dateTime":"x"}`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestEmptyStringOptionalFieldsAccepted(t *testing.T) {
	raw := `{"link":"l","description":"d","dateTime":"x","city":"","state":"","latitude":"","longitude":"","created":""}`
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.HasCoordinates() {
		t.Fatalf("empty coordinates should not count as present")
	}
	if e.City != "" || e.State != "" {
		t.Fatalf("expected empty place labels")
	}
}

func TestValidate(t *testing.T) {
	if err := (Entry{Description: "d"}).Validate(); err != ErrMissingLink {
		t.Fatalf("expected ErrMissingLink, got %v", err)
	}
	if err := (Entry{Link: "l", Description: "  "}).Validate(); err != ErrMissingDescription {
		t.Fatalf("expected ErrMissingDescription, got %v", err)
	}
	if err := (Entry{Link: "l", Description: "d"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFieldUnknownIsEmpty(t *testing.T) {
	e := Entry{Link: "l", Description: "d", City: "Aspen"}
	if got := e.Field("city"); got != "Aspen" {
		t.Fatalf("expected Aspen, got %q", got)
	}
	if got := e.Field("nope"); got != "" {
		t.Fatalf("expected empty for unknown field, got %q", got)
	}
}

func TestWhenFallsBackToDisplayString(t *testing.T) {
	e := Entry{DateTime: "2023-09-4 12:00 PM"}
	when, ok := e.When()
	if !ok {
		t.Fatalf("expected seed layout to parse")
	}
	if when.Day() != 4 || when.Month() != time.September || when.Hour() != 12 {
		t.Fatalf("unexpected parse: %v", when)
	}
}

func TestCloneDetachesTimestamp(t *testing.T) {
	e := New("l", "d", time.Now())
	c := e.Clone()
	c.Created.Time = time.Time{}
	if e.Created.IsZero() {
		t.Fatalf("clone shares timestamp with original")
	}
}
