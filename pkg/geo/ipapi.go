package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultIPAPIURL is the ip-api.com JSON endpoint.
const DefaultIPAPIURL = "http://ip-api.com/json/"

// IPLocatorOptions configures an IPLocator.
type IPLocatorOptions struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	Client    *fasthttp.Client
}

// IPLocator approximates the device position from its public IP address.
type IPLocator struct {
	url  string
	http *httpClient
}

func NewIPLocator(opts IPLocatorOptions) *IPLocator {
	u := opts.URL
	if u == "" {
		u = DefaultIPAPIURL
	}
	return &IPLocator{url: u, http: newHTTPClient(opts.Client, opts.UserAgent, opts.Timeout)}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLocator) CurrentPosition(ctx context.Context) (Coordinates, error) {
	sep := "?"
	if strings.Contains(l.url, "?") {
		sep = "&"
	}
	var resp ipAPIResponse
	if err := l.http.getJSON(ctx, l.url+sep+"fields=status,message,lat,lon", &resp); err != nil {
		if errors.Is(err, errTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return Coordinates{}, fmt.Errorf("%w: %v", ErrGeolocationTimeout, err)
		}
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
	}
	if resp.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrGeolocationDenied, resp.Message)
	}
	return Coordinates{Latitude: resp.Lat, Longitude: resp.Lon}, nil
}
