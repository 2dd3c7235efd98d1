// Package geocode resolves coordinates to human-readable place names.
// Lookups are best effort: PlaceName never fails and falls back to the
// Unavailable sentinel.
package geocode

import (
	"context"
	"log"
)

const (
	// Unavailable is reported when the lookup failed or is disabled.
	Unavailable = "Location service timed out or is unavailable."
	// UnknownLocation is reported when the service has no place for the coordinates.
	UnknownLocation = "Unknown Location"
)

// Geocoder performs reverse geocoding.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// PlaceName returns the place name for lat/lon, or Unavailable when g is nil
// or the lookup fails.
func PlaceName(ctx context.Context, g Geocoder, lat, lon float64) string {
	if g == nil {
		return Unavailable
	}
	name, err := g.Reverse(ctx, lat, lon)
	if err != nil {
		log.Printf("geocode: lookup %.6f,%.6f failed: %v", lat, lon, err)
		return Unavailable
	}
	return name
}
