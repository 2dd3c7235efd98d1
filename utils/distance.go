package utils

import (
	"fmt"
	"time"
)

// MetersPerKilometer converts between the meter thresholds at the interface
// boundary and the kilometer distances used internally.
const MetersPerKilometer = 1000.0

// MetersToKilometers converts meters to kilometers.
func MetersToKilometers(m float64) float64 {
	return m / MetersPerKilometer
}

// KilometersToMeters converts kilometers to meters.
func KilometersToMeters(km float64) float64 {
	return km * MetersPerKilometer
}

// PresentableDistance formats a kilometer distance as meters with two decimals.
func PresentableDistance(km float64) string {
	return fmt.Sprintf("%.2f meters", KilometersToMeters(km))
}

// PresentableDuration formats d as seconds with two decimals.
func PresentableDuration(d time.Duration) string {
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}

// Plural returns singular when n == 1 and plural otherwise.
func Plural(n int, singular, plural string) string {
	return ternary(n == 1, singular, plural)
}

func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
