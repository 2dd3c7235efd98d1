// Package formatter renders the outcome of a run.
//
// This package is organized into:
// - report.go: the Report assembled by the analyzer
// - text.go: the human-readable report
// - json.go: JSON serialization
package formatter
