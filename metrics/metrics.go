// Package metrics records run statistics in a Prometheus registry. A run is a
// one-shot batch job, so the registry is written to a node_exporter textfile
// instead of being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theoremus-urban-solutions/nexuspoint/aggregate"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

// Recorder holds the run metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	records        *prometheus.CounterVec
	events         *prometheus.GaugeVec
	sourceFailures prometheus.Counter
	pairMatches    *prometheus.GaugeVec
	totalMatches   prometheus.Gauge
	bestDistance   prometheus.Gauge
	runDuration    prometheus.Gauge
	lastRun        prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{reg: prometheus.NewRegistry()}
	r.records = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexuspoint",
		Name:      "records_total",
		Help:      "Raw timeline records by source and normalization outcome",
	}, []string{"source", "outcome"})
	r.events = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nexuspoint",
		Name:      "source_events",
		Help:      "Normalized events per source",
	}, []string{"source", "format"})
	r.sourceFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nexuspoint",
		Name:      "source_failures_total",
		Help:      "Sources excluded from comparison",
	})
	r.pairMatches = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nexuspoint",
		Name:      "pair_matches",
		Help:      "Matches found per compared source pair",
	}, []string{"source", "target"})
	r.totalMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nexuspoint",
		Name:      "matches",
		Help:      "Matches found across all pairs",
	})
	r.bestDistance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nexuspoint",
		Name:      "best_match_distance_meters",
		Help:      "Distance of the globally closest match, -1 when none",
	})
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nexuspoint",
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run",
	})
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nexuspoint",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
	r.reg.MustRegister(r.records, r.events, r.sourceFailures, r.pairMatches,
		r.totalMatches, r.bestDistance, r.runDuration, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveSource records the normalization outcome of one source.
func (r *Recorder) ObserveSource(name string, res timeline.Result) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(name, "kept").Add(float64(res.Stats.Kept))
	r.records.WithLabelValues(name, "malformed").Add(float64(res.Stats.Malformed))
	r.records.WithLabelValues(name, "out_of_range").Add(float64(res.Stats.OutOfRange))
	r.records.WithLabelValues(name, "filtered").Add(float64(res.Stats.Filtered))
	r.events.WithLabelValues(name, res.Format.String()).Set(float64(len(res.Sequence)))
}

// SourceFailed counts a source that could not be used.
func (r *Recorder) SourceFailed() {
	if r == nil {
		return
	}
	r.sourceFailures.Inc()
}

// ObserveRun records the aggregated result.
func (r *Recorder) ObserveRun(res *aggregate.Result, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.runDuration.Set(elapsed.Seconds())
	r.lastRun.SetToCurrentTime()
	if res == nil {
		r.bestDistance.Set(-1)
		return
	}
	for _, p := range res.Pairs {
		r.pairMatches.WithLabelValues(p.SourceName, p.TargetName).Set(float64(p.Matches))
	}
	r.totalMatches.Set(float64(res.TotalMatches))
	if res.Best == nil {
		r.bestDistance.Set(-1)
		return
	}
	r.bestDistance.Set(res.Best.DistanceKm * 1000)
}

// WriteTextfile writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.Registry())
}
