package timeline

import (
	"encoding/json"
	"errors"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/theoremus-urban-solutions/nexuspoint/utils"
)

var errMissingField = errors.New("missing field")

// Stats counts what happened to each raw record during normalization.
// Records == Kept + Malformed + OutOfRange + Filtered.
type Stats struct {
	Records    int `json:"records"`
	Kept       int `json:"kept"`
	Malformed  int `json:"malformed"`
	OutOfRange int `json:"outOfRange"`
	Filtered   int `json:"filtered"`
}

// Result is the output of Normalize.
type Result struct {
	Format   Format
	Sequence Sequence
	Stats    Stats
}

type outcome int

const (
	outcomeKept outcome = iota
	outcomeMalformed
	outcomeOutOfRange
	outcomeFiltered
)

// record is the per-record result folded into a Result.
type record struct {
	obs     Observation
	outcome outcome
}

func (r *Result) add(rec record) {
	r.Stats.Records++
	switch rec.outcome {
	case outcomeKept:
		r.Stats.Kept++
		r.Sequence = append(r.Sequence, rec.obs)
	case outcomeMalformed:
		r.Stats.Malformed++
	case outcomeOutOfRange:
		r.Stats.OutOfRange++
	case outcomeFiltered:
		r.Stats.Filtered++
	}
}

// Normalize converts a decoded document into a time-sorted Sequence.
// Records that cannot be parsed are skipped and counted; Normalize itself
// never fails.
func Normalize(doc Document, years YearRange) Result {
	res := Result{Format: doc.Format}
	switch doc.Format {
	case FormatSemanticSegments:
		for _, raw := range doc.Segments {
			normalizeSegment(raw, years, &res)
		}
	case FormatVisitList:
		for _, raw := range doc.Visits {
			res.add(visitListRecord(raw, years))
		}
	case FormatLocations:
		for _, raw := range doc.Locations {
			res.add(locationsRecord(raw, years))
		}
	case FormatVehiclePositions:
		normalizeFeed(doc.Feed, years, &res)
	}
	res.Sequence.SortByTime()
	return res
}

func normalizeSegment(raw json.RawMessage, years YearRange, res *Result) {
	var seg segment
	if err := json.Unmarshal(raw, &seg); err != nil {
		res.add(record{outcome: outcomeMalformed})
		return
	}
	if len(seg.TimelinePath) > 0 {
		for _, p := range seg.TimelinePath {
			res.add(pathRecord(p, years))
		}
		return
	}
	if seg.Visit != nil {
		res.add(build(seg.StartTime, years, func() (float64, float64, error) {
			return visitLatLon(seg.Visit)
		}))
		return
	}
	// segments that are neither path nor visit (activities) carry no location
}

func pathRecord(raw json.RawMessage, years YearRange) record {
	var p pathPoint
	if err := json.Unmarshal(raw, &p); err != nil {
		return record{outcome: outcomeMalformed}
	}
	return build(p.Time, years, func() (float64, float64, error) {
		return extractLatLon(p.Point)
	})
}

func visitListRecord(raw json.RawMessage, years YearRange) record {
	var v visitRecord
	if err := json.Unmarshal(raw, &v); err != nil {
		return record{outcome: outcomeMalformed}
	}
	return build(v.StartTime, years, func() (float64, float64, error) {
		return visitLatLon(v.Visit)
	})
}

func visitLatLon(v *visit) (float64, float64, error) {
	if v == nil || v.TopCandidate == nil {
		return 0, 0, errMissingField
	}
	return extractLatLon(string(v.TopCandidate.PlaceLocation))
}

func locationsRecord(raw json.RawMessage, years YearRange) record {
	var loc locationRecord
	if err := json.Unmarshal(raw, &loc); err != nil {
		return record{outcome: outcomeMalformed}
	}
	ts, err := locationTime(loc)
	if err != nil {
		return record{outcome: outcomeMalformed}
	}
	return classify(ts, years, func() (float64, float64, error) {
		if loc.LatitudeE7 == nil || loc.LongitudeE7 == nil {
			return 0, 0, errMissingField
		}
		return fromE7(*loc.LatitudeE7, *loc.LongitudeE7)
	})
}

func locationTime(loc locationRecord) (time.Time, error) {
	if loc.Timestamp != "" {
		return utils.ParseTimestamp(loc.Timestamp)
	}
	if loc.TimestampMs != "" {
		ms, err := loc.TimestampMs.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return utils.FromUnixMillis(ms), nil
	}
	return time.Time{}, errMissingField
}

func normalizeFeed(fm *gtfsrtpb.FeedMessage, years YearRange, res *Result) {
	if fm == nil {
		return
	}
	var headerTS uint64
	if fm.Header != nil {
		headerTS = fm.Header.GetTimestamp()
	}
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil {
			continue
		}
		ts := vp.GetTimestamp()
		if ts == 0 {
			ts = headerTS
		}
		if ts == 0 || vp.Position == nil {
			res.add(record{outcome: outcomeMalformed})
			continue
		}
		pos := vp.Position
		res.add(classify(utils.FromUnixSeconds(int64(ts)), years, func() (float64, float64, error) {
			return checkRange(float64(pos.GetLatitude()), float64(pos.GetLongitude()))
		}))
	}
}

// build parses the timestamp string and classifies the record.
func build(rawTime string, years YearRange, coords func() (float64, float64, error)) record {
	ts, err := utils.ParseTimestamp(rawTime)
	if err != nil {
		return record{outcome: outcomeMalformed}
	}
	return classify(ts, years, coords)
}

// classify applies the year filter before resolving coordinates.
func classify(ts time.Time, years YearRange, coords func() (float64, float64, error)) record {
	if !years.Contains(ts) {
		return record{outcome: outcomeFiltered}
	}
	lat, lon, err := coords()
	if errors.Is(err, errOutOfRange) {
		return record{outcome: outcomeOutOfRange}
	}
	if err != nil {
		return record{outcome: outcomeMalformed}
	}
	return record{
		outcome: outcomeKept,
		obs:     Observation{Timestamp: ts, Latitude: lat, Longitude: lon},
	}
}
