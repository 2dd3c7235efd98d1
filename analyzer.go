package nexuspoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/nexuspoint/aggregate"
	"github.com/theoremus-urban-solutions/nexuspoint/config"
	"github.com/theoremus-urban-solutions/nexuspoint/formatter"
	"github.com/theoremus-urban-solutions/nexuspoint/geocode"
	"github.com/theoremus-urban-solutions/nexuspoint/metrics"
	"github.com/theoremus-urban-solutions/nexuspoint/source"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
	"github.com/theoremus-urban-solutions/nexuspoint/tz"
)

// Analyzer coordinates loading, matching and enrichment of a run
type Analyzer struct {
	Cfg    config.AppConfig
	Loader *source.Loader
	// Geocoder and Zones are optional; nil disables place names and local
	// time conversion respectively.
	Geocoder geocode.Geocoder
	Zones    tz.Resolver
	Metrics  *metrics.Recorder
}

// NewAnalyzer builds an Analyzer and its collaborators from cfg.
func NewAnalyzer(cfg config.AppConfig) (*Analyzer, error) {
	rec := metrics.New()
	a := &Analyzer{
		Cfg: cfg,
		Loader: source.NewLoader(source.Options{
			Years:       timeline.YearRange{Min: cfg.Match.MinYear, Max: cfg.Match.MaxYear},
			HTTPTimeout: cfg.HTTP.Timeout,
			UserAgent:   cfg.HTTP.UserAgent,
			Metrics:     rec,
		}),
		Metrics: rec,
	}
	if cfg.Geocoder.Enabled {
		a.Geocoder = geocode.NewNominatim(geocode.NominatimOptions{
			BaseURL:   cfg.Geocoder.BaseURL,
			UserAgent: cfg.Geocoder.UserAgent,
			Language:  cfg.Geocoder.Language,
			Timeout:   cfg.Geocoder.Timeout,
			Retries:   cfg.Geocoder.Retries,
			RetryWait: cfg.Geocoder.RetryWait,
			Delay:     cfg.Geocoder.Delay,
		})
	}
	if cfg.Timezone.Enabled {
		finder, err := tz.NewFinder()
		if err != nil {
			return nil, fmt.Errorf("timezone finder: %w", err)
		}
		a.Zones = finder
	}
	return a, nil
}

// Run analyzes paths. The returned report is always usable for rendering;
// the error is aggregate.ErrNotEnoughSources when fewer than two sources
// yielded events.
func (a *Analyzer) Run(ctx context.Context, paths []string) (formatter.Report, error) {
	start := time.Now()
	report := formatter.Report{
		Thresholds: formatter.Thresholds{
			TimeMinutes:    a.Cfg.Match.TimeMinutes,
			DistanceMeters: a.Cfg.Match.DistanceMeters,
			MinYear:        a.Cfg.Match.MinYear,
			MaxYear:        a.Cfg.Match.MaxYear,
		},
	}

	loaded, diags := a.Loader.LoadAll(ctx, paths)
	for _, d := range diags {
		report.Failures = append(report.Failures, formatter.Failure{Path: d.Path, Reason: d.Err.Error()})
	}
	sources := make([]aggregate.Source, 0, len(loaded))
	for _, l := range loaded {
		report.Sources = append(report.Sources, formatter.SourceSummary{Name: l.Name, Format: l.Result.Format, Stats: l.Result.Stats})
		sources = append(sources, aggregate.Source{Name: l.Name, Seq: l.Result.Sequence})
	}

	res, err := aggregate.Run(sources, aggregate.Options{
		TimeThresholdMinutes:    a.Cfg.Match.TimeMinutes,
		DistanceThresholdMeters: a.Cfg.Match.DistanceMeters,
		Workers:                 a.Cfg.Match.Workers,
	})
	if err != nil {
		if errors.Is(err, aggregate.ErrNotEnoughSources) {
			log.Printf("analyzer: %v (%d usable of %d)", err, len(sources), len(paths))
		}
		report.Elapsed = time.Since(start)
		a.finish(nil, report.Elapsed)
		return report, err
	}
	report.Result = res

	if best := res.Best; best != nil {
		log.Printf("analyzer: looking up location of closest match")
		report.PlaceName = geocode.PlaceName(ctx, a.Geocoder, best.Source.Latitude, best.Source.Longitude)
		report.SourceLocal = tz.LocalTime(a.Zones, best.Source.Timestamp, best.Source.Latitude, best.Source.Longitude)
		report.TargetLocal = tz.LocalTime(a.Zones, best.Target.Timestamp, best.Target.Latitude, best.Target.Longitude)
	}

	report.Elapsed = time.Since(start)
	a.finish(res, report.Elapsed)
	return report, nil
}

func (a *Analyzer) finish(res *aggregate.Result, elapsed time.Duration) {
	a.Metrics.ObserveRun(res, elapsed)
	if err := a.Metrics.WriteTextfile(a.Cfg.Metrics.Textfile); err != nil {
		log.Printf("analyzer: failed to write metrics textfile: %v", err)
	}
}
