package matcher

import (
	"time"

	"github.com/theoremus-urban-solutions/nexuspoint/geo"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

// Match pairs an observation of the first sequence with one of the second.
// Source and Target point into the compared sequences.
type Match struct {
	Source     *timeline.Observation
	Target     *timeline.Observation
	TimeDelta  time.Duration
	DistanceKm float64
}

// Find returns every pair (a[i], b[k]) with |Δt| <= window and great-circle
// distance <= maxKm, in scan order. Both sequences must be sorted by time.
func Find(a, b timeline.Sequence, window time.Duration, maxKm float64) []Match {
	var matches []Match
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		delta := a[i].Timestamp.Sub(b[j].Timestamp)
		if delta > window {
			j++
			continue
		}
		if delta < -window {
			i++
			continue
		}
		src := &a[i]
		for k := j; k < len(b); k++ {
			gap := absDuration(src.Timestamp.Sub(b[k].Timestamp))
			if gap > window {
				break
			}
			d := geo.HaversineKM(src.Latitude, src.Longitude, b[k].Latitude, b[k].Longitude)
			if d <= maxKm {
				matches = append(matches, Match{
					Source:     src,
					Target:     &b[k],
					TimeDelta:  gap,
					DistanceKm: d,
				})
			}
		}
		i++
	}
	return matches
}

// Closest returns the first match with the smallest distance.
func Closest(ms []Match) (Match, bool) {
	if len(ms) == 0 {
		return Match{}, false
	}
	best := ms[0]
	for _, m := range ms[1:] {
		if m.DistanceKm < best.DistanceKm {
			best = m
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
