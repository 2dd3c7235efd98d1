package timeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/theoremus-urban-solutions/nexuspoint/geo"
)

var (
	errCoordinateArity = errors.New("expected exactly two coordinates")
	errOutOfRange      = errors.New("coordinates out of range")
)

// e7Scale converts latitudeE7/longitudeE7 integers to degrees.
const e7Scale = 1e7

var decimalPattern = regexp.MustCompile(`[-+]?\d+\.\d+`)

// extractLatLon pulls a latitude, longitude pair out of a free-form location
// string. Every string format in the supported exports lists latitude first.
func extractLatLon(s string) (float64, float64, error) {
	found := decimalPattern.FindAllString(s, -1)
	if len(found) != 2 {
		return 0, 0, fmt.Errorf("%w: found %d in %q", errCoordinateArity, len(found), s)
	}
	lat, err := strconv.ParseFloat(found[0], 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err := strconv.ParseFloat(found[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return checkRange(lat, lon)
}

func fromE7(latE7, lonE7 int64) (float64, float64, error) {
	return checkRange(float64(latE7)/e7Scale, float64(lonE7)/e7Scale)
}

func checkRange(lat, lon float64) (float64, float64, error) {
	if !geo.Valid(lat, lon) {
		return 0, 0, fmt.Errorf("%w: lat=%v lon=%v", errOutOfRange, lat, lon)
	}
	return lat, lon, nil
}
