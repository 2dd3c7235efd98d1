// Package tz converts UTC timestamps to the local civil time at a coordinate.
package tz

import (
	"errors"
	"fmt"
	"log"
	"time"
	_ "time/tzdata" // LoadLocation must work on hosts without zoneinfo

	"github.com/ringsaturn/tzf"
)

// ErrNoZone is returned when no timezone covers the coordinate.
var ErrNoZone = errors.New("no timezone at coordinate")

// Resolver maps a coordinate to an IANA timezone name.
type Resolver interface {
	Zone(lat, lon float64) (string, error)
}

// Finder resolves timezones offline from the polygons embedded in tzf.
type Finder struct {
	finder tzf.F
}

// NewFinder loads the default tzf dataset.
func NewFinder() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load timezone data: %w", err)
	}
	return &Finder{finder: f}, nil
}

// Zone returns the timezone name at lat/lon.
func (f *Finder) Zone(lat, lon float64) (string, error) {
	name := f.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", ErrNoZone
	}
	return name, nil
}

// LocalTime converts t to local civil time at lat/lon. It returns t in UTC
// when r is nil or no zone can be resolved.
func LocalTime(r Resolver, t time.Time, lat, lon float64) time.Time {
	utc := t.UTC()
	if r == nil {
		return utc
	}
	name, err := r.Zone(lat, lon)
	if err != nil {
		return utc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("tz: unknown location %q: %v", name, err)
		return utc
	}
	return utc.In(loc)
}
