package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/theoremus-urban-solutions/nexuspoint/aggregate"
	"github.com/theoremus-urban-solutions/nexuspoint/matcher"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

func TestRecorder_ObserveSource(t *testing.T) {
	r := New()
	r.ObserveSource("alice.json", timeline.Result{
		Format:   timeline.FormatLocations,
		Sequence: make(timeline.Sequence, 3),
		Stats:    timeline.Stats{Records: 6, Kept: 3, Malformed: 2, Filtered: 1},
	})

	if got := testutil.ToFloat64(r.records.WithLabelValues("alice.json", "malformed")); got != 2 {
		t.Errorf("malformed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.events.WithLabelValues("alice.json", "locations")); got != 3 {
		t.Errorf("events = %v, want 3", got)
	}

	n, err := testutil.GatherAndCount(r.Registry(), "nexuspoint_records_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 4 {
		t.Errorf("records_total series = %d, want one per outcome", n)
	}
}

func TestRecorder_NilRegistry(t *testing.T) {
	var r *Recorder
	if r.Registry() != nil {
		t.Error("nil recorder should expose no registry")
	}
}

func TestRecorder_ObserveRun(t *testing.T) {
	r := New()
	res := &aggregate.Result{
		TotalMatches: 5,
		Pairs: []aggregate.PairSummary{
			{SourceName: "a", TargetName: "b", Matches: 2},
			{SourceName: "a", TargetName: "c", Matches: 3},
		},
		Best: &aggregate.Best{Match: matcher.Match{DistanceKm: 0.0125}, SourceName: "a", TargetName: "c"},
	}
	r.ObserveRun(res, 1500*time.Millisecond)

	if got := testutil.ToFloat64(r.totalMatches); got != 5 {
		t.Errorf("matches = %v, want 5", got)
	}
	if got := testutil.ToFloat64(r.pairMatches.WithLabelValues("a", "c")); got != 3 {
		t.Errorf("pair matches = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.bestDistance); got != 12.5 {
		t.Errorf("best distance = %v, want 12.5", got)
	}
	if got := testutil.ToFloat64(r.runDuration); got != 1.5 {
		t.Errorf("duration = %v, want 1.5", got)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveSource("x", timeline.Result{})
	r.SourceFailed()
	r.ObserveRun(nil, time.Second)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("nil recorder should not fail: %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.SourceFailed()
	r.ObserveRun(&aggregate.Result{}, time.Second)

	path := filepath.Join(t.TempDir(), "nexuspoint.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, want := range []string{"nexuspoint_source_failures_total 1", "nexuspoint_best_match_distance_meters -1"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
