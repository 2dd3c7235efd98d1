package source

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/theoremus-urban-solutions/nexuspoint/metrics"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

// ErrNoEvents is reported for sources with zero events after filtering.
var ErrNoEvents = errors.New("no valid events found for the specified year range")

// Loaded is a successfully normalized source.
type Loaded struct {
	Name   string
	Result timeline.Result
}

// Diagnostic explains why a source was excluded.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

// Options configures a Loader.
type Options struct {
	Years       timeline.YearRange
	HTTPTimeout time.Duration
	UserAgent   string
	Metrics     *metrics.Recorder
}

// Loader reads and normalizes sources.
type Loader struct {
	http    *resty.Client
	years   timeline.YearRange
	metrics *metrics.Recorder
}

// NewLoader creates a Loader.
func NewLoader(opts Options) *Loader {
	client := resty.New().SetTimeout(opts.HTTPTimeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Loader{http: client, years: opts.Years, metrics: opts.Metrics}
}

// Load fetches, decodes and normalizes one source.
func (l *Loader) Load(ctx context.Context, path string) (*Loaded, error) {
	data, err := l.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := timeline.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	res := timeline.Normalize(doc, l.years)
	l.metrics.ObserveSource(path, res)
	if res.Stats.OutOfRange > 0 {
		log.Printf("source: %s: dropped %d record(s) with out-of-range coordinates, likely a latitude/longitude order mismatch",
			path, res.Stats.OutOfRange)
	}
	if len(res.Sequence) == 0 {
		log.Printf("source: no valid events found in %s for the specified year range", path)
		return nil, ErrNoEvents
	}
	return &Loaded{Name: path, Result: res}, nil
}

// LoadAll loads every path in order. Failed sources are returned as
// diagnostics; usable sources keep argument order.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]*Loaded, []Diagnostic) {
	var loaded []*Loaded
	var diags []Diagnostic
	for _, p := range paths {
		src, err := l.Load(ctx, p)
		if err != nil {
			log.Printf("source: skipping %s: %v", p, err)
			l.metrics.SourceFailed()
			diags = append(diags, Diagnostic{Path: p, Err: err})
			continue
		}
		first, last, _ := src.Result.Sequence.Span()
		log.Printf("source: successfully processed %s (%s), found %d events from %s to %s",
			p, src.Result.Format, len(src.Result.Sequence), first.Format(time.RFC3339), last.Format(time.RFC3339))
		loaded = append(loaded, src)
	}
	return loaded, diags
}

// fetch reads a local file or an http(s) URL.
func (l *Loader) fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, errors.New("empty source path")
	}

	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		data, err := os.ReadFile(urlOrPath)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return data, nil
	}

	resp, err := l.http.R().SetContext(ctx).Get(urlOrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode(), urlOrPath)
	}
	return resp.Body(), nil
}
