// Package geo resolves places to coordinates and back.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// DevicePrecision is the number of decimals device fixes are rounded to.
const DevicePrecision = 6

var (
	ErrGeoLookupFailed        = errors.New("geo: place could not be matched")
	ErrGeolocationUnavailable = errors.New("geo: device location is not available")
	ErrGeolocationDenied      = errors.New("geo: device location was denied")
	ErrGeolocationTimeout     = errors.New("geo: device location timed out")
	ErrReverseLookupFailed    = errors.New("geo: coordinates could not be named")
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Round returns c rounded to places decimals.
func (c Coordinates) Round(places int) Coordinates {
	p := math.Pow(10, float64(places))
	return Coordinates{
		Latitude:  math.Round(c.Latitude*p) / p,
		Longitude: math.Round(c.Longitude*p) / p,
	}
}

// Strings formats both components. A negative prec uses the fewest digits
// that represent the value exactly.
func (c Coordinates) Strings(prec int) (lat, lon string) {
	return strconv.FormatFloat(c.Latitude, 'f', prec, 64), strconv.FormatFloat(c.Longitude, 'f', prec, 64)
}

// Valid reports whether c lies within WGS84 bounds.
func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude) &&
		c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	lat, lon := c.Strings(DevicePrecision)
	return lat + "," + lon
}

// ParseCoordinates reads a pair of decimal strings.
func ParseCoordinates(lat, lon string) (Coordinates, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geo: latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geo: longitude %q: %w", lon, err)
	}
	c := Coordinates{Latitude: la, Longitude: lo}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("geo: %s out of range", c)
	}
	return c, nil
}

// PlaceLabel names a place.
type PlaceLabel struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Forwarder turns place text into coordinates.
type Forwarder interface {
	Forward(ctx context.Context, city, state string) (Coordinates, error)
}

// Locator reports where the device running the program is.
type Locator interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Reverser names the place at a position.
type Reverser interface {
	Reverse(ctx context.Context, c Coordinates) (PlaceLabel, error)
}

// Resolver bundles the three capabilities. Any of them may be nil.
type Resolver struct {
	Forwarder Forwarder
	Locator   Locator
	Reverser  Reverser
}

// Resolve is forward resolution. Every failure wraps ErrGeoLookupFailed.
func (r *Resolver) Resolve(ctx context.Context, city, state string) (Coordinates, error) {
	if r == nil || r.Forwarder == nil {
		return Coordinates{}, fmt.Errorf("%w: no geocoder configured", ErrGeoLookupFailed)
	}
	c, err := r.Forwarder.Forward(ctx, city, state)
	if err != nil {
		if errors.Is(err, ErrGeoLookupFailed) {
			return Coordinates{}, err
		}
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeoLookupFailed, err)
	}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("%w: %s out of range", ErrGeoLookupFailed, c)
	}
	return c, nil
}

// CurrentPosition is device resolution, rounded to DevicePrecision.
// Failures wrap one of ErrGeolocationUnavailable, ErrGeolocationDenied or
// ErrGeolocationTimeout.
func (r *Resolver) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if r == nil || r.Locator == nil {
		return Coordinates{}, ErrGeolocationUnavailable
	}
	c, err := r.Locator.CurrentPosition(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrGeolocationUnavailable),
			errors.Is(err, ErrGeolocationDenied),
			errors.Is(err, ErrGeolocationTimeout):
			return Coordinates{}, err
		case errors.Is(err, context.DeadlineExceeded):
			return Coordinates{}, fmt.Errorf("%w: %v", ErrGeolocationTimeout, err)
		default:
			return Coordinates{}, fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
		}
	}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("%w: %s out of range", ErrGeolocationUnavailable, c)
	}
	return c.Round(DevicePrecision), nil
}

// CanReverse reports whether reverse resolution is configured.
func (r *Resolver) CanReverse() bool {
	return r != nil && r.Reverser != nil
}

// ReverseResolve names the place at c. Failures wrap ErrReverseLookupFailed.
func (r *Resolver) ReverseResolve(ctx context.Context, c Coordinates) (PlaceLabel, error) {
	if !r.CanReverse() {
		return PlaceLabel{}, fmt.Errorf("%w: no reverse geocoder configured", ErrReverseLookupFailed)
	}
	label, err := r.Reverser.Reverse(ctx, c)
	if err != nil {
		if errors.Is(err, ErrReverseLookupFailed) {
			return PlaceLabel{}, err
		}
		return PlaceLabel{}, fmt.Errorf("%w: %v", ErrReverseLookupFailed, err)
	}
	return label, nil
}

// Chain tries each forwarder in order and returns the first match.
type Chain []Forwarder

func (c Chain) Forward(ctx context.Context, city, state string) (Coordinates, error) {
	var last error = ErrGeoLookupFailed
	for _, f := range c {
		if f == nil {
			continue
		}
		coords, err := f.Forward(ctx, city, state)
		if err == nil {
			return coords, nil
		}
		last = err
		if ctx.Err() != nil {
			break
		}
	}
	if errors.Is(last, ErrGeoLookupFailed) {
		return Coordinates{}, last
	}
	return Coordinates{}, fmt.Errorf("%w: %v", ErrGeoLookupFailed, last)
}

// FixedLocator reports a configured position. A nil FixedLocator means the
// capability is absent.
type FixedLocator struct {
	Position Coordinates
}

func (f *FixedLocator) CurrentPosition(context.Context) (Coordinates, error) {
	if f == nil {
		return Coordinates{}, ErrGeolocationUnavailable
	}
	return f.Position, nil
}
