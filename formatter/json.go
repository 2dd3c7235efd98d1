package formatter

import (
	"encoding/json"
	"time"

	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
	"github.com/theoremus-urban-solutions/nexuspoint/utils"
)

type jsonThresholds struct {
	TimeMinutes    int     `json:"timeMinutes"`
	DistanceMeters float64 `json:"distanceMeters"`
	MinYear        int     `json:"minYear,omitempty"`
	MaxYear        int     `json:"maxYear,omitempty"`
}

type jsonSource struct {
	Name   string         `json:"name"`
	Format string         `json:"format"`
	Stats  timeline.Stats `json:"stats"`
}

type jsonFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type jsonPair struct {
	Source          string   `json:"source"`
	Target          string   `json:"target"`
	Matches         int      `json:"matches"`
	ClosestDistance *float64 `json:"closestDistanceMeters,omitempty"`
}

type jsonEndpoint struct {
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	LocalTime time.Time `json:"localTime"`
}

type jsonBest struct {
	PlaceName        string       `json:"placeName"`
	DistanceMeters   float64      `json:"distanceMeters"`
	TimeDeltaSeconds float64      `json:"timeDeltaSeconds"`
	Source           jsonEndpoint `json:"source"`
	Target           jsonEndpoint `json:"target"`
}

type jsonReport struct {
	Thresholds     jsonThresholds `json:"thresholds"`
	Sources        []jsonSource   `json:"sources"`
	Failures       []jsonFailure  `json:"failures,omitempty"`
	TotalMatches   int            `json:"totalMatches"`
	Pairs          []jsonPair     `json:"pairs"`
	Best           *jsonBest      `json:"best"`
	ElapsedSeconds float64        `json:"elapsedSeconds"`
}

// JSON serializes the report. Sources and pairs are always arrays; best is
// null when nothing matched.
func JSON(r Report) ([]byte, error) {
	out := jsonReport{
		Thresholds: jsonThresholds{
			TimeMinutes:    r.Thresholds.TimeMinutes,
			DistanceMeters: r.Thresholds.DistanceMeters,
			MinYear:        r.Thresholds.MinYear,
			MaxYear:        r.Thresholds.MaxYear,
		},
		Sources:        make([]jsonSource, 0, len(r.Sources)),
		Pairs:          []jsonPair{},
		ElapsedSeconds: r.Elapsed.Seconds(),
	}
	for _, s := range r.Sources {
		out.Sources = append(out.Sources, jsonSource{Name: s.Name, Format: s.Format.String(), Stats: s.Stats})
	}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, jsonFailure(f))
	}

	if r.Result != nil {
		out.TotalMatches = r.Result.TotalMatches
		for _, p := range r.Result.Pairs {
			jp := jsonPair{Source: p.SourceName, Target: p.TargetName, Matches: p.Matches}
			if p.Closest != nil {
				m := utils.KilometersToMeters(p.Closest.DistanceKm)
				jp.ClosestDistance = &m
			}
			out.Pairs = append(out.Pairs, jp)
		}
		if best := r.Result.Best; best != nil {
			out.Best = &jsonBest{
				PlaceName:        r.PlaceName,
				DistanceMeters:   utils.KilometersToMeters(best.DistanceKm),
				TimeDeltaSeconds: best.TimeDelta.Seconds(),
				Source: jsonEndpoint{
					Name:      best.SourceName,
					Latitude:  best.Source.Latitude,
					Longitude: best.Source.Longitude,
					Timestamp: best.Source.Timestamp,
					LocalTime: r.SourceLocal,
				},
				Target: jsonEndpoint{
					Name:      best.TargetName,
					Latitude:  best.Target.Latitude,
					Longitude: best.Target.Longitude,
					Timestamp: best.Target.Timestamp,
					LocalTime: r.TargetLocal,
				},
			}
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
