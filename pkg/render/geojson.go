package render

import (
	"encoding/json"
	"io"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string     `json:"type"`
	Geometry   point      `json:"geometry"`
	Properties properties `json:"properties"`
}

type point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type properties struct {
	Link        string `json:"link"`
	Description string `json:"description"`
}

// GeoJSON returns markers as a FeatureCollection of points.
func GeoJSON(markers []Marker) ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(markers))}
	for _, m := range markers {
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: point{
				Type: "Point",
				// GeoJSON positions are [longitude, latitude].
				Coordinates: [2]float64{m.Longitude, m.Latitude},
			},
			Properties: properties{Link: m.Popup.Link, Description: m.Popup.Description},
		})
	}
	return json.MarshalIndent(fc, "", "  ")
}

// WriteGeoJSON writes the marker set of m to w.
func WriteGeoJSON(w io.Writer, m *Markers) error {
	markers, _, _ := m.Snapshot()
	b, err := GeoJSON(markers)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
