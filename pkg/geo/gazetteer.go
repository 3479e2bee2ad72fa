package geo

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Place is a named position in a Gazetteer.
type Place struct {
	City  string
	State string
	Coordinates
}

// DefaultPlaces covers the venues of the built-in example streams plus a
// handful of frequent beach volleyball stops. Coordinates are city centers.
var DefaultPlaces = []Place{
	{City: "Lewisville", State: "TX", Coordinates: Coordinates{33.046233, -96.994174}},
	{City: "Aspen", State: "CO", Coordinates: Coordinates{39.191098, -106.817539}},
	{City: "Gulf Shores", State: "AL", Coordinates: Coordinates{30.246036, -87.700822}},
	{City: "Manhattan Beach", State: "CA", Coordinates: Coordinates{33.884736, -118.410909}},
	{City: "Ft. Worth", State: "TX", Coordinates: Coordinates{32.755488, -97.330766}},
	{City: "Ft. Lauderdale", State: "FL", Coordinates: Coordinates{26.122439, -80.137317}},
	{City: "Hermosa Beach", State: "CA", Coordinates: Coordinates{33.862237, -118.399519}},
	{City: "Huntington Beach", State: "CA", Coordinates: Coordinates{33.660297, -117.999226}},
	{City: "Chicago", State: "IL", Coordinates: Coordinates{41.878113, -87.629799}},
	{City: "New York", State: "NY", Coordinates: Coordinates{40.712776, -74.005974}},
	{City: "Atlanta", State: "GA", Coordinates: Coordinates{33.748997, -84.387985}},
	{City: "Denver", State: "CO", Coordinates: Coordinates{39.739235, -104.990250}},
}

// Gazetteer resolves against a fixed table and never touches the network.
type Gazetteer struct {
	Places []Place
	// RadiusKm bounds reverse lookups; 0 means 50km.
	RadiusKm float64
}

// NewGazetteer returns a gazetteer over DefaultPlaces.
func NewGazetteer() *Gazetteer {
	return &Gazetteer{Places: DefaultPlaces}
}

func (g *Gazetteer) Forward(_ context.Context, city, state string) (Coordinates, error) {
	city = normalizePlace(city)
	state = normalizePlace(state)
	if city == "" {
		return Coordinates{}, fmt.Errorf("%w: no city given", ErrGeoLookupFailed)
	}
	for _, p := range g.Places {
		if normalizePlace(p.City) != city {
			continue
		}
		if state != "" && normalizePlace(p.State) != state {
			continue
		}
		return p.Coordinates, nil
	}
	return Coordinates{}, fmt.Errorf("%w: %q, %q not in gazetteer", ErrGeoLookupFailed, city, state)
}

func (g *Gazetteer) Reverse(_ context.Context, c Coordinates) (PlaceLabel, error) {
	radius := g.RadiusKm
	if radius <= 0 {
		radius = 50
	}
	best := -1
	bestDist := math.Inf(1)
	for i, p := range g.Places {
		if d := DistanceKm(c, p.Coordinates); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > radius {
		return PlaceLabel{}, fmt.Errorf("%w: nothing within %.0fkm of %s", ErrReverseLookupFailed, radius, c)
	}
	return PlaceLabel{City: g.Places[best].City, State: g.Places[best].State}, nil
}

// DistanceKm is the great circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	const earthRadiusKm = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Latitude - a.Latitude)
	dLon := rad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Latitude))*math.Cos(rad(b.Latitude))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// normalizePlace folds case, trailing dots and the "Fort"/"Ft." spelling.
func normalizePlace(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	if strings.HasPrefix(s, "fort ") {
		s = "ft " + strings.TrimPrefix(s, "fort ")
	}
	return strings.Join(strings.Fields(s), " ")
}
