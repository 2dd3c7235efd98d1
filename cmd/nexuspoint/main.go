package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/theoremus-urban-solutions/nexuspoint"
	"github.com/theoremus-urban-solutions/nexuspoint/aggregate"
	"github.com/theoremus-urban-solutions/nexuspoint/config"
	"github.com/theoremus-urban-solutions/nexuspoint/formatter"
	"github.com/theoremus-urban-solutions/nexuspoint/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nexuspoint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: nexuspoint [flags] timeline.json [timeline.json ...]")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to config.yml (default: search config.yml, ./nexuspoint/config.yml)")
	timeMinutes := fs.Int("time", 2, "time threshold in minutes")
	distanceMeters := fs.Float64("distance", 100, "distance threshold in meters")
	startYear := fs.Int("start-year", 0, "first year to analyze (0: unbounded)")
	endYear := fs.Int("end-year", 0, "last year to analyze (0: unbounded)")
	format := fs.String("format", "text", "report format: text|json")
	workers := fs.Int("workers", 0, "compare source pairs concurrently with this many workers")
	quiet := fs.Bool("quiet", false, "suppress progress logging")
	textfile := fs.String("metrics-textfile", "", "write Prometheus metrics to this file")
	noGeocode := fs.Bool("no-geocode", false, "skip the reverse geocoding lookup")
	noTimezone := fs.Bool("no-timezone", false, "report timestamps in UTC")
	internal.InitLogging(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("nexuspoint: %v", err)
		if errors.Is(err, config.ErrInvalid) {
			return 2
		}
		return 1
	}

	// Explicitly set flags override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "time":
			cfg.Match.TimeMinutes = *timeMinutes
		case "distance":
			cfg.Match.DistanceMeters = *distanceMeters
		case "start-year":
			cfg.Match.MinYear = *startYear
		case "end-year":
			cfg.Match.MaxYear = *endYear
		case "format":
			cfg.Report.Format = *format
		case "workers":
			cfg.Match.Workers = *workers
		case "metrics-textfile":
			cfg.Metrics.Textfile = *textfile
		case "no-geocode":
			cfg.Geocoder.Enabled = cfg.Geocoder.Enabled && !*noGeocode
		case "no-timezone":
			cfg.Timezone.Enabled = cfg.Timezone.Enabled && !*noTimezone
		}
	})
	if err := config.Validate(cfg); err != nil {
		log.Printf("nexuspoint: %v", err)
		return 2
	}

	// Keep stdout clean for machine-readable reports.
	logOut := stdout
	if cfg.Report.Format == "json" {
		logOut = stderr
	}
	if *quiet {
		logOut = io.Discard
	}
	internal.InitLogging(logOut)

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	analyzer, err := nexuspoint.NewAnalyzer(*cfg)
	if err != nil {
		log.Printf("nexuspoint: %v", err)
		return 1
	}

	report, runErr := analyzer.Run(ctx, fs.Args())
	if runErr != nil && !errors.Is(runErr, aggregate.ErrNotEnoughSources) {
		log.Printf("nexuspoint: %v", runErr)
		return 1
	}

	if err := render(stdout, cfg.Report.Format, report); err != nil {
		log.Printf("nexuspoint: %v", err)
		return 1
	}
	if runErr != nil {
		log.Printf("nexuspoint: %v. Exiting.", runErr)
		return 1
	}
	return 0
}

func render(w io.Writer, format string, report formatter.Report) error {
	if format == "json" {
		b, err := formatter.JSON(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	return formatter.Text(w, report)
}
