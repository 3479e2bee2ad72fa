package geo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultNominatimURL is the public OpenStreetMap geocoder.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimOptions configures a Nominatim client.
type NominatimOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Client overrides the transport, mostly for tests.
	Client *fasthttp.Client
}

// Nominatim is a forward and reverse geocoder backed by a Nominatim server.
type Nominatim struct {
	base string
	http *httpClient
}

func NewNominatim(opts NominatimOptions) *Nominatim {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultNominatimURL
	}
	return &Nominatim{
		base: base,
		http: newHTTPClient(opts.Client, opts.UserAgent, opts.Timeout),
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type nominatimReverse struct {
	Error   string `json:"error"`
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Hamlet       string `json:"hamlet"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		State        string `json:"state"`
		StateCode    string `json:"ISO3166-2-lvl4"`
	} `json:"address"`
}

func (n *Nominatim) Forward(ctx context.Context, city, state string) (Coordinates, error) {
	city, state = strings.TrimSpace(city), strings.TrimSpace(state)
	if city == "" && state == "" {
		return Coordinates{}, fmt.Errorf("%w: no place given", ErrGeoLookupFailed)
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	if city != "" {
		q.Set("city", city)
	}
	if state != "" {
		q.Set("state", state)
	}

	var places []nominatimPlace
	if err := n.http.getJSON(ctx, n.base+"/search?"+q.Encode(), &places); err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeoLookupFailed, err)
	}
	if len(places) == 0 {
		return Coordinates{}, fmt.Errorf("%w: no match for %q, %q", ErrGeoLookupFailed, city, state)
	}
	c, err := ParseCoordinates(places[0].Lat, places[0].Lon)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeoLookupFailed, err)
	}
	return c, nil
}

func (n *Nominatim) Reverse(ctx context.Context, c Coordinates) (PlaceLabel, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("zoom", "10")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	var rev nominatimReverse
	if err := n.http.getJSON(ctx, n.base+"/reverse?"+q.Encode(), &rev); err != nil {
		return PlaceLabel{}, fmt.Errorf("%w: %v", ErrReverseLookupFailed, err)
	}
	if rev.Error != "" {
		return PlaceLabel{}, fmt.Errorf("%w: %s", ErrReverseLookupFailed, rev.Error)
	}

	a := rev.Address
	label := PlaceLabel{
		City:  firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality, a.County),
		State: stateCode(a.StateCode, a.State),
	}
	if label.City == "" && label.State == "" {
		return PlaceLabel{}, fmt.Errorf("%w: no named place at %s", ErrReverseLookupFailed, c)
	}
	return label, nil
}

// stateCode prefers the short subdivision ("US-CO" -> "CO").
func stateCode(iso, name string) string {
	if i := strings.LastIndex(iso, "-"); i >= 0 && i+1 < len(iso) {
		return iso[i+1:]
	}
	return name
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
