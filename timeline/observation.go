package timeline

import (
	"slices"
	"time"
)

// Observation is a single timestamped coordinate.
type Observation struct {
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// Sequence is the normalized, time-sorted list of observations for one source.
type Sequence []Observation

// SortByTime stable-sorts s ascending by timestamp; equal timestamps keep
// their record order.
func (s Sequence) SortByTime() {
	slices.SortStableFunc(s, func(a, b Observation) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// IsSorted reports whether s is non-decreasing by timestamp.
func (s Sequence) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp.Before(s[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// Span returns the first and last timestamps of a sorted sequence.
func (s Sequence) Span() (time.Time, time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s[0].Timestamp, s[len(s)-1].Timestamp, true
}

// YearRange bounds observations by calendar year, inclusive on both sides.
// A zero bound is unbounded.
type YearRange struct {
	Min int
	Max int
}

// Contains reports whether t's year, in t's own offset, falls in the range.
func (y YearRange) Contains(t time.Time) bool {
	year := t.Year()
	if y.Min != 0 && year < y.Min {
		return false
	}
	if y.Max != 0 && year > y.Max {
		return false
	}
	return true
}
