// Package geo provides great-circle distance and coordinate validation for
// WGS84 degree coordinates.
package geo
