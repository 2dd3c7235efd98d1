package source

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/nexuspoint/metrics"
	"github.com/theoremus-urban-solutions/nexuspoint/timeline"
)

func fixture(name string) string {
	return filepath.Join("..", "testdata", "timeline", name)
}

func newTestLoader(years timeline.YearRange) *Loader {
	return NewLoader(Options{Years: years, HTTPTimeout: 5 * time.Second, UserAgent: "nexuspoint-test"})
}

func TestLoader_LoadFile(t *testing.T) {
	src, err := newTestLoader(timeline.YearRange{}).Load(context.Background(), fixture("carol-records.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.Name != fixture("carol-records.json") {
		t.Errorf("unexpected name %q", src.Name)
	}
	if src.Result.Format != timeline.FormatLocations || len(src.Result.Sequence) != 4 {
		t.Errorf("unexpected result: %s with %d events", src.Result.Format, len(src.Result.Sequence))
	}
}

func TestLoader_LoadURL(t *testing.T) {
	data, err := os.ReadFile(fixture("bob-visits.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "nexuspoint-test" {
			t.Errorf("unexpected user agent %q", ua)
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := newTestLoader(timeline.YearRange{})
	src, err := l.Load(context.Background(), srv.URL+"/bob.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(src.Result.Sequence) != 2 {
		t.Errorf("expected 2 events, got %d", len(src.Result.Sequence))
	}

	if _, err := l.Load(context.Background(), srv.URL+"/missing.json"); err == nil {
		t.Error("expected error for HTTP 404")
	}
}

func TestLoader_SourceFailures(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		years timeline.YearRange
		is    error
	}{
		{"missing file", fixture("does-not-exist.json"), timeline.YearRange{}, os.ErrNotExist},
		{"corrupt file", fixture("corrupt.json"), timeline.YearRange{}, timeline.ErrUnknownFormat},
		{"unknown shape", fixture("unknown.json"), timeline.YearRange{}, timeline.ErrUnknownFormat},
		{"nothing in year range", fixture("bob-visits.json"), timeline.YearRange{Min: 2030}, ErrNoEvents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(tt.years).Load(context.Background(), tt.path)
			if !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestLoader_LoadAll(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	rec := metrics.New()
	l := NewLoader(Options{HTTPTimeout: time.Second, Metrics: rec})

	paths := []string{
		fixture("bob-visits.json"),
		fixture("does-not-exist.json"),
		fixture("alice-semantic.json"),
		fixture("corrupt.json"),
		fixture("carol-records.json"),
	}
	loaded, diags := l.LoadAll(context.Background(), paths)

	if len(loaded) != 3 {
		t.Fatalf("expected 3 usable sources, got %d", len(loaded))
	}
	wantOrder := []string{paths[0], paths[2], paths[4]}
	for i, w := range wantOrder {
		if loaded[i].Name != w {
			t.Errorf("source %d: expected %s, got %s", i, w, loaded[i].Name)
		}
	}
	if len(diags) != 2 || diags[0].Path != paths[1] || diags[1].Path != paths[3] {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	want := "source: successfully processed " + paths[0] + " (visitList), found 2 events from 2024-05-04T08:00:00Z to 2024-05-04T12:01:00Z"
	if !strings.Contains(logs.String(), want) {
		t.Errorf("missing %q in logs:\n%s", want, logs.String())
	}
}
