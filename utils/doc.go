// Package utils provides internal utility functions for nexuspoint.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Timestamp parsing for location-history exports
//   - Unit conversion between meters and kilometers
//   - Presentation helpers for distances and durations
package utils
