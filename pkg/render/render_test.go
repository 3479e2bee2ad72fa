package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/geo"
)

func entries() []entry.Entry {
	return []entry.Entry{
		{Link: "https://a", Description: "Aspen final", DateTime: "2023-08-30 4:00 PM", City: "Aspen", State: "CO", Latitude: "39.1888327", Longitude: "-106.8268543"},
		{Link: "https://b", Description: "No coords", DateTime: "2023-05-05 2:00 PM", City: "Gulf Shores", State: "AL"},
		{Link: "https://c", Description: "Half coords", DateTime: "2023-05-06 2:00 PM", Latitude: "30.1"},
		{Link: "https://d", Description: "Bad coords", DateTime: "2023-05-07 2:00 PM", Latitude: "north", Longitude: "west"},
	}
}

type recordingHandle struct {
	calls []string
}

func (r *recordingHandle) PlaceMarker(_ geo.Coordinates, p Popup) {
	r.calls = append(r.calls, "place:"+p.Link)
}

func (r *recordingHandle) ClearMarkers() {
	r.calls = append(r.calls, "clear")
}

func (r *recordingHandle) SetView(geo.Coordinates, int) {
	r.calls = append(r.calls, "view")
}

func TestMapRenderClearsThenPlaces(t *testing.T) {
	h := &recordingHandle{}
	m := Map{Handle: h}
	if n := m.Render(entries()); n != 1 {
		t.Fatalf("expected 1 marker, got %d", n)
	}
	if len(h.calls) != 2 || h.calls[0] != "clear" || h.calls[1] != "place:https://a" {
		t.Fatalf("unexpected handle calls %v", h.calls)
	}
}

func TestMarkerExclusionKeepsTableRows(t *testing.T) {
	var out bytes.Buffer
	table := &Table{Out: &out}
	markers := NewMarkers()
	m := Map{Handle: markers}

	in := entries()
	table.Render(in)
	m.Render(in)

	if got := len(table.Rows()); got != len(in) {
		t.Fatalf("every entry needs a row, got %d of %d", got, len(in))
	}
	placed, _, _ := markers.Snapshot()
	for _, p := range placed {
		for _, e := range in {
			if e.Link == p.Popup.Link && !e.HasCoordinates() {
				t.Fatalf("marker placed for entry without coordinates: %s", e.Link)
			}
		}
	}
	if !strings.Contains(out.String(), "Gulf Shores") {
		t.Fatalf("table output missing row without coordinates:\n%s", out.String())
	}
}

func TestRendersAreFullRedraws(t *testing.T) {
	table := &Table{}
	markers := NewMarkers()
	m := Map{Handle: markers}

	table.Render(entries())
	m.Render(entries())
	table.Render(entries()[:1])
	m.Render(entries()[1:])

	if len(table.Rows()) != 1 {
		t.Fatalf("table kept stale rows: %d", len(table.Rows()))
	}
	if markers.Len() != 0 {
		t.Fatalf("map kept stale markers: %d", markers.Len())
	}
}

func TestTableRowsShowEmptyOptionals(t *testing.T) {
	table := &Table{}
	table.Render(entries()[1:2])
	r := table.Rows()[0]
	if r.Latitude != "" || r.Longitude != "" || r.City != "Gulf Shores" {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestTableHyperlinks(t *testing.T) {
	var out bytes.Buffer
	table := &Table{Out: &out, Hyperlinks: true}
	table.Render(entries()[:1])
	if !strings.Contains(out.String(), "\x1b]8;;https://a\x1b\\Aspen final") {
		t.Fatalf("expected OSC 8 hyperlink in output: %q", out.String())
	}
}

func TestGeoJSON(t *testing.T) {
	markers := NewMarkers()
	(&Map{Handle: markers}).Render(entries())

	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, markers); err != nil {
		t.Fatalf("geojson: %v", err)
	}
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 1 {
		t.Fatalf("unexpected document %+v", doc)
	}
	c := doc.Features[0].Geometry.Coordinates
	if c[0] != -106.8268543 || c[1] != 39.1888327 {
		t.Fatalf("expected [lon, lat], got %v", c)
	}
	if doc.Features[0].Properties["link"] != "https://a" {
		t.Fatalf("missing popup link: %v", doc.Features[0].Properties)
	}
}

func TestWritePage(t *testing.T) {
	table := &Table{}
	markers := NewMarkers()
	in := entries()
	table.Render(in)
	(&Map{Handle: markers}).Render(in)

	page := NewPage("Streams", table, markers)
	page.Columns = []Column{{Field: "city", Title: "City", Active: true, Next: "asc", Arrow: "▼"}}
	var buf bytes.Buffer
	if err := WritePage(&buf, page); err != nil {
		t.Fatalf("page: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Aspen final", "Gulf Shores", "L.map('map')", `href="https://a"`, "City ▼"} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(entry.FieldCity, "desc")
	if len(cols) != len(Headers)-1 {
		t.Fatalf("expected the link column folded into the description, got %d columns", len(cols))
	}
	for _, c := range cols {
		switch c.Field {
		case entry.FieldCity:
			if !c.Active || c.Next != "asc" || c.Arrow != "▼" {
				t.Fatalf("unexpected active column %+v", c)
			}
		default:
			if c.Active || c.Next != "desc" {
				t.Fatalf("unexpected inactive column %+v", c)
			}
		}
	}
	if c := Columns(entry.FieldCity, "asc"); c[2].Next != "desc" || c[2].Arrow != "▲" {
		t.Fatalf("ascending column should flip back to desc: %+v", c[2])
	}
}
