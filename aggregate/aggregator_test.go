package aggregate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

var t0 = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

// metersNorth returns a latitude offset of roughly m meters.
func metersNorth(m float64) float64 {
	return m / 1000 / 111.195
}

func single(offset time.Duration, lat, lon float64) timeline.Sequence {
	return timeline.Sequence{{Timestamp: t0.Add(offset), Latitude: lat, Longitude: lon}}
}

func TestRun_GlobalMinimumAcrossPairs(t *testing.T) {
	sources := []Source{
		{Name: "A", Seq: single(0, 0, 0)},
		{Name: "B", Seq: single(30*time.Second, metersNorth(50), 0)},
		{Name: "C", Seq: single(-30*time.Second, -metersNorth(20), 0)},
	}

	res, err := Run(sources, Options{TimeThresholdMinutes: 2, DistanceThresholdMeters: 100})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Best == nil {
		t.Fatal("expected a global best match")
	}
	if res.Best.SourceName != "A" || res.Best.TargetName != "C" {
		t.Errorf("expected best pair (A, C), got (%s, %s)", res.Best.SourceName, res.Best.TargetName)
	}
	if math.Abs(res.Best.DistanceKm-0.020) > 0.0001 {
		t.Errorf("expected ~20 m, got %f km", res.Best.DistanceKm)
	}
	// B and C are 70 m apart within the window
	if res.TotalMatches != 3 {
		t.Errorf("expected 3 matches in total, got %d", res.TotalMatches)
	}
}

func TestRun_PairsAreCombinationsInOrder(t *testing.T) {
	var sources []Source
	for _, name := range []string{"w", "x", "y", "z"} {
		sources = append(sources, Source{Name: name, Seq: single(0, 1, 1)})
	}

	res, err := Run(sources, Options{TimeThresholdMinutes: 2, DistanceThresholdMeters: 100})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := [][2]string{{"w", "x"}, {"w", "y"}, {"w", "z"}, {"x", "y"}, {"x", "z"}, {"y", "z"}}
	if len(res.Pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(res.Pairs))
	}
	for i, w := range want {
		p := res.Pairs[i]
		if p.SourceName != w[0] || p.TargetName != w[1] {
			t.Errorf("pair %d: expected %v, got (%s, %s)", i, w, p.SourceName, p.TargetName)
		}
		if p.Matches != 1 || p.Closest == nil {
			t.Errorf("pair %d: expected one match, got %d", i, p.Matches)
		}
	}
	if res.TotalMatches != 6 {
		t.Errorf("expected 6 total matches, got %d", res.TotalMatches)
	}
	// every pair ties at 0 m: the first pair wins
	if res.Best.SourceName != "w" || res.Best.TargetName != "x" {
		t.Errorf("tie should keep the first pair, got (%s, %s)", res.Best.SourceName, res.Best.TargetName)
	}
}

func TestRun_NotEnoughSources(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
	}{
		{"none", nil},
		{"one", []Source{{Name: "a", Seq: single(0, 1, 1)}}},
		{"one non-empty", []Source{{Name: "a", Seq: single(0, 1, 1)}, {Name: "b"}, {Name: "c", Seq: timeline.Sequence{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(tt.sources, Options{TimeThresholdMinutes: 2, DistanceThresholdMeters: 100})
			if !errors.Is(err, ErrNotEnoughSources) {
				t.Errorf("expected ErrNotEnoughSources, got %v", err)
			}
			if res != nil {
				t.Errorf("expected no result, got %+v", res)
			}
		})
	}
}

func TestRun_EmptySourcesAreSkipped(t *testing.T) {
	sources := []Source{
		{Name: "a", Seq: single(0, 1, 1)},
		{Name: "empty"},
		{Name: "b", Seq: single(0, 1, 1)},
	}
	res, err := Run(sources, Options{TimeThresholdMinutes: 2, DistanceThresholdMeters: 100})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Pairs) != 1 || res.Pairs[0].SourceName != "a" || res.Pairs[0].TargetName != "b" {
		t.Errorf("expected only (a, b), got %+v", res.Pairs)
	}
}

func TestRun_InvalidThresholds(t *testing.T) {
	sources := []Source{{Name: "a", Seq: single(0, 1, 1)}, {Name: "b", Seq: single(0, 1, 1)}}
	for _, opts := range []Options{
		{TimeThresholdMinutes: -1, DistanceThresholdMeters: 100},
		{TimeThresholdMinutes: 2, DistanceThresholdMeters: -0.5},
	} {
		if _, err := Run(sources, opts); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("Run(%+v) error = %v, want ErrInvalidThreshold", opts, err)
		}
	}
}

func TestRun_NoMatchesLeavesBestNil(t *testing.T) {
	sources := []Source{
		{Name: "a", Seq: single(0, 1, 1)},
		{Name: "b", Seq: single(time.Hour, 1, 1)},
	}
	res, err := Run(sources, Options{TimeThresholdMinutes: 2, DistanceThresholdMeters: 100})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Best != nil || res.TotalMatches != 0 {
		t.Errorf("expected no matches, got %+v", res)
	}
	if res.Pairs[0].Closest != nil {
		t.Error("pair without matches should have no closest match")
	}
}

func TestRun_UnitConversion(t *testing.T) {
	sources := []Source{
		{Name: "a", Seq: single(0, 10.0, 20.0)},
		{Name: "b", Seq: single(time.Minute, 10.0005, 20.0005)},
	}

	res, err := Run(sources, Options{TimeThresholdMinutes: 2, DistanceThresholdMeters: 100})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalMatches != 1 {
		t.Fatalf("expected 1 match, got %d", res.TotalMatches)
	}
	if res.Best.TimeDelta != time.Minute {
		t.Errorf("expected 60s delta, got %s", res.Best.TimeDelta)
	}

	// 1 minute window excludes nothing, 50 m excludes the ~78 m pair
	res, err = Run(sources, Options{TimeThresholdMinutes: 1, DistanceThresholdMeters: 50})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalMatches != 0 {
		t.Errorf("expected 0 matches at 50 m, got %d", res.TotalMatches)
	}
}

func TestRun_HugeTimeThresholdSaturates(t *testing.T) {
	sources := []Source{
		{Name: "a", Seq: single(0, 1, 1)},
		{Name: "b", Seq: single(time.Hour, 1, 1)},
	}
	for _, minutes := range []int{60, 153722868, 200000000, 1000000000} {
		res, err := Run(sources, Options{TimeThresholdMinutes: minutes, DistanceThresholdMeters: 100})
		if err != nil {
			t.Fatalf("Run(%d min) failed: %v", minutes, err)
		}
		if res.TotalMatches != 1 {
			t.Errorf("Run(%d min): expected 1 match, got %d", minutes, res.TotalMatches)
		}
	}
}

func TestRun_WorkersDoNotChangeResult(t *testing.T) {
	var sources []Source
	for i := 0; i < 6; i++ {
		var seq timeline.Sequence
		for k := 0; k < 50; k++ {
			seq = append(seq, timeline.Observation{
				Timestamp: t0.Add(time.Duration(k*37+i*11) * time.Second),
				Latitude:  48.1 + metersNorth(float64((k*7+i*13)%90)),
				Longitude: 11.5,
			})
		}
		seq.SortByTime()
		sources = append(sources, Source{Name: string(rune('a' + i)), Seq: seq})
	}
	opts := Options{TimeThresholdMinutes: 1, DistanceThresholdMeters: 60}

	serial, err := Run(sources, opts)
	if err != nil {
		t.Fatalf("serial Run failed: %v", err)
	}
	opts.Workers = 4
	parallel, err := Run(sources, opts)
	if err != nil {
		t.Fatalf("parallel Run failed: %v", err)
	}

	if serial.TotalMatches != parallel.TotalMatches {
		t.Errorf("total matches differ: %d vs %d", serial.TotalMatches, parallel.TotalMatches)
	}
	for i := range serial.Pairs {
		if serial.Pairs[i].Matches != parallel.Pairs[i].Matches {
			t.Errorf("pair %d differs: %d vs %d", i, serial.Pairs[i].Matches, parallel.Pairs[i].Matches)
		}
	}
	if (serial.Best == nil) != (parallel.Best == nil) {
		t.Fatal("best match presence differs")
	}
	if serial.Best != nil && (serial.Best.SourceName != parallel.Best.SourceName ||
		serial.Best.TargetName != parallel.Best.TargetName ||
		serial.Best.DistanceKm != parallel.Best.DistanceKm) {
		t.Errorf("best differs: %+v vs %+v", serial.Best, parallel.Best)
	}
}
