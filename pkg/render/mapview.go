package render

import (
	"sync"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/geo"
)

// Default map view: centered on North America.
var (
	DefaultCenter = geo.Coordinates{Latitude: 39.8282, Longitude: -98.5795}
	DefaultZoom   = 3
)

// Popup is the content attached to a marker.
type Popup struct {
	Link        string `json:"link"`
	Description string `json:"description"`
}

// MapHandle is the map capability the renderer draws on.
type MapHandle interface {
	PlaceMarker(at geo.Coordinates, popup Popup)
	ClearMarkers()
	SetView(center geo.Coordinates, zoom int)
}

// Map renders entries as markers on a MapHandle.
type Map struct {
	Handle MapHandle
}

// Render clears every marker and places one per entry with both
// coordinates present and parseable. It returns the number placed.
func (m *Map) Render(entries []entry.Entry) int {
	m.Handle.ClearMarkers()
	placed := 0
	for _, e := range entries {
		if !e.HasCoordinates() {
			continue
		}
		at, err := geo.ParseCoordinates(e.Latitude, e.Longitude)
		if err != nil {
			continue
		}
		m.Handle.PlaceMarker(at, Popup{Link: e.Link, Description: e.Description})
		placed++
	}
	return placed
}

// Marker is a placed marker.
type Marker struct {
	geo.Coordinates
	Popup Popup `json:"popup"`
}

// Markers is an in-memory MapHandle. The marker set can be serialized as
// GeoJSON or drawn into a Leaflet page.
type Markers struct {
	mu      sync.RWMutex
	markers []Marker
	center  geo.Coordinates
	zoom    int
}

// NewMarkers returns a handle at the default view.
func NewMarkers() *Markers {
	return &Markers{center: DefaultCenter, zoom: DefaultZoom}
}

func (m *Markers) PlaceMarker(at geo.Coordinates, popup Popup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, Marker{Coordinates: at, Popup: popup})
}

func (m *Markers) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = nil
}

func (m *Markers) SetView(center geo.Coordinates, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center, m.zoom = center, zoom
}

// Snapshot returns the placed markers and the current view.
func (m *Markers) Snapshot() ([]Marker, geo.Coordinates, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out, m.center, m.zoom
}

// Len is the number of placed markers.
func (m *Markers) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.markers)
}
