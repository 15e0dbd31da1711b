package geo

import (
	"context"
	"errors"
	"fmt"
)

// ErrGeocodeUnavailable is returned when every configured geocoding provider
// failed to resolve an address.
var ErrGeocodeUnavailable = errors.New("geocoding unavailable")

// Coordinate is an immutable geographic point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is within WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceResult carries road (or fallback straight-line) distance between two
// points. DurationMinutes is nil when the figure came from the straight-line
// fallback, which consumers must treat as lower confidence.
type DistanceResult struct {
	DistanceKm      float64  `json:"distance_km"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
}

// Geocoder resolves a free-form address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, error)
}

// RouteEstimator computes travel distance between two coordinates. It never
// fails: implementations degrade to straight-line distance instead.
type RouteEstimator interface {
	Estimate(ctx context.Context, pickup, delivery Coordinate) DistanceResult
}

// Resolver tries an ordered list of geocoding providers until one succeeds,
// collecting each provider's failure for diagnostics.
type Resolver struct {
	providers []Geocoder
}

func NewResolver(providers ...Geocoder) *Resolver {
	return &Resolver{providers: providers}
}

func (r *Resolver) Geocode(ctx context.Context, address string) (Coordinate, error) {
	var attempts []error
	for _, p := range r.providers {
		coord, err := p.Geocode(ctx, address)
		if err == nil {
			return coord, nil
		}
		attempts = append(attempts, err)
	}
	return Coordinate{}, fmt.Errorf("%w: %q: %w", ErrGeocodeUnavailable, address, errors.Join(attempts...))
}
