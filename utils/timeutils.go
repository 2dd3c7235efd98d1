package utils

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrNoZone is returned for timestamps that carry no UTC offset.
var ErrNoZone = errors.New("timestamp has no zone offset")

// ReportLayout is the timestamp layout used in human-readable reports.
const ReportLayout = "2006-01-02 15:04:05 MST-0700"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO8601 timestamp with a mandatory offset.
// "Z" is accepted as +00:00. The parsed offset is preserved.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if _, nerr := time.Parse(layout, s); nerr == nil {
			return time.Time{}, ErrNoZone
		}
	}
	return time.Time{}, err
}

// FromUnixMillis converts epoch milliseconds to a UTC time.
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromUnixSeconds converts epoch seconds to a UTC time.
func FromUnixSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// FormatReportTime formats t for report output in its own location.
func FormatReportTime(t time.Time) string {
	return t.Format(ReportLayout)
}

// MinutesToDuration converts a whole-minute threshold to a time.Duration,
// saturating at the largest representable duration.
func MinutesToDuration(minutes int) time.Duration {
	if int64(minutes) > math.MaxInt64/int64(time.Minute) {
		return math.MaxInt64
	}
	return time.Duration(minutes) * time.Minute
}
