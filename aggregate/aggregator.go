package aggregate

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/nexuspoint/matcher"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
	"github.com/theoremus-urban-solutions/nexuspoint/utils"
)

var (
	// ErrNotEnoughSources is returned when fewer than two non-empty sources
	// are supplied. No comparison is performed.
	ErrNotEnoughSources = errors.New("need at least two non-empty timelines to compare")
	// ErrInvalidThreshold is returned for negative thresholds.
	ErrInvalidThreshold = errors.New("thresholds must be non-negative")
)

// Source is a named, normalized timeline.
type Source struct {
	Name string
	Seq  timeline.Sequence
}

// Options configures a run. Thresholds use the units of the command line:
// whole minutes and meters.
type Options struct {
	TimeThresholdMinutes    int
	DistanceThresholdMeters float64
	// Workers > 1 compares pairs concurrently. The result does not depend on it.
	Workers int
}

// PairSummary is the outcome of comparing two sources.
type PairSummary struct {
	SourceName string
	TargetName string
	Matches    int
	Closest    *matcher.Match
}

// Best is the globally closest match and the sources that produced it.
type Best struct {
	matcher.Match
	SourceName string
	TargetName string
}

// Result is the folded outcome of a run.
type Result struct {
	TotalMatches int
	Pairs        []PairSummary
	// Best is nil when no pair produced a match.
	Best *Best
}

type pair struct {
	a, b int
}

// Run compares every unordered pair of sources.
func Run(sources []Source, opts Options) (*Result, error) {
	if opts.TimeThresholdMinutes < 0 || opts.DistanceThresholdMeters < 0 {
		return nil, fmt.Errorf("%w: time=%d min, distance=%g m", ErrInvalidThreshold, opts.TimeThresholdMinutes, opts.DistanceThresholdMeters)
	}
	usable := make([]Source, 0, len(sources))
	for _, s := range sources {
		if len(s.Seq) > 0 {
			usable = append(usable, s)
		}
	}
	if len(usable) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughSources, len(usable))
	}

	window := utils.MinutesToDuration(opts.TimeThresholdMinutes)
	maxKm := utils.MetersToKilometers(opts.DistanceThresholdMeters)

	pairs := combinations(len(usable))
	summaries := make([]PairSummary, len(pairs))
	compare := func(n int) {
		p := pairs[n]
		summaries[n] = comparePair(usable[p.a], usable[p.b], window, maxKm)
	}

	if opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for n := range pairs {
			g.Go(func() error {
				compare(n)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for n := range pairs {
			compare(n)
		}
	}

	return fold(summaries), nil
}

func comparePair(a, b Source, window time.Duration, maxKm float64) PairSummary {
	matches := matcher.Find(a.Seq, b.Seq, window, maxKm)
	s := PairSummary{SourceName: a.Name, TargetName: b.Name, Matches: len(matches)}
	if closest, ok := matcher.Closest(matches); ok {
		s.Closest = &closest
	}
	return s
}

// fold sums match counts and keeps the closest match, replacing it only on a
// strictly smaller distance.
func fold(summaries []PairSummary) *Result {
	res := &Result{Pairs: summaries}
	for _, s := range summaries {
		res.TotalMatches += s.Matches
		if s.Closest == nil {
			continue
		}
		if res.Best == nil || s.Closest.DistanceKm < res.Best.DistanceKm {
			res.Best = &Best{Match: *s.Closest, SourceName: s.SourceName, TargetName: s.TargetName}
		}
	}
	return res
}

// combinations lists index pairs (i, j), i < j, in lexicographic order.
func combinations(n int) []pair {
	out := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, pair{i, j})
		}
	}
	return out
}
