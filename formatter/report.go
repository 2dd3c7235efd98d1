package formatter

import (
	"time"

	"github.com/theoremus-urban-solutions/nexuspoint/aggregate"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

// SourceSummary describes one usable source.
type SourceSummary struct {
	Name   string
	Format timeline.Format
	Stats  timeline.Stats
}

// Failure describes a source that was left out of the run.
type Failure struct {
	Path   string
	Reason string
}

// Thresholds echoes the matching parameters of the run.
type Thresholds struct {
	TimeMinutes    int
	DistanceMeters float64
	MinYear        int
	MaxYear        int
}

// Report is everything a run produced.
type Report struct {
	Thresholds Thresholds
	Sources    []SourceSummary
	Failures   []Failure
	// Result is nil when fewer than two sources were usable.
	Result *aggregate.Result
	// PlaceName, SourceLocal and TargetLocal describe Result.Best and are
	// zero when there is none.
	PlaceName   string
	SourceLocal time.Time
	TargetLocal time.Time
	Elapsed     time.Duration
}
