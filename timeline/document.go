package timeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// ErrUnknownFormat is returned by Decode when the input matches none of the
// supported export shapes.
var ErrUnknownFormat = errors.New("unrecognized timeline format")

// Format identifies the shape of a decoded document.
type Format int

const (
	FormatUnknown Format = iota
	FormatSemanticSegments
	FormatVisitList
	FormatLocations
	FormatVehiclePositions
)

func (f Format) String() string {
	switch f {
	case FormatSemanticSegments:
		return "semanticSegments"
	case FormatVisitList:
		return "visitList"
	case FormatLocations:
		return "locations"
	case FormatVehiclePositions:
		return "gtfsrtVehiclePositions"
	default:
		return "unknown"
	}
}

// Document is a decoded export. Exactly one of the record fields is populated,
// selected by Format. JSON records are kept raw so that a malformed record
// only costs itself during normalization.
type Document struct {
	Format    Format
	Segments  []json.RawMessage
	Visits    []json.RawMessage
	Locations []json.RawMessage
	Feed      *gtfsrtpb.FeedMessage
}

// Decode inspects data and returns the matching Document.
func Decode(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return decodeJSON(trimmed)
	}
	return decodeFeed(data)
}

func decodeJSON(data []byte) (Document, error) {
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return Document{}, fmt.Errorf("visit list: %w", err)
		}
		return Document{Format: FormatVisitList, Visits: items}, nil
	case '{':
		var top map[string]json.RawMessage
		if err := json.Unmarshal(data, &top); err != nil {
			return Document{}, err
		}
		if raw, ok := top["semanticSegments"]; ok {
			var segs []json.RawMessage
			if err := json.Unmarshal(raw, &segs); err != nil {
				return Document{}, fmt.Errorf("%w: semanticSegments is not a list", ErrUnknownFormat)
			}
			return Document{Format: FormatSemanticSegments, Segments: segs}, nil
		}
		if raw, ok := top["locations"]; ok {
			var locs []json.RawMessage
			if err := json.Unmarshal(raw, &locs); err != nil {
				return Document{}, fmt.Errorf("%w: locations is not a list", ErrUnknownFormat)
			}
			return Document{Format: FormatLocations, Locations: locs}, nil
		}
	}
	return Document{}, ErrUnknownFormat
}

func decodeFeed(data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, ErrUnknownFormat
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	if fm.Header == nil {
		return Document{}, ErrUnknownFormat
	}
	return Document{Format: FormatVehiclePositions, Feed: &fm}, nil
}

// Records returns the number of raw records in the document.
func (d Document) Records() int {
	switch d.Format {
	case FormatSemanticSegments:
		return len(d.Segments)
	case FormatVisitList:
		return len(d.Visits)
	case FormatLocations:
		return len(d.Locations)
	case FormatVehiclePositions:
		if d.Feed == nil {
			return 0
		}
		return len(d.Feed.Entity)
	}
	return 0
}

type pathPoint struct {
	Point string `json:"point"`
	Time  string `json:"time"`
}

type segment struct {
	StartTime    string            `json:"startTime"`
	TimelinePath []json.RawMessage `json:"timelinePath"`
	Visit        *visit            `json:"visit"`
}

type visit struct {
	TopCandidate *candidate `json:"topCandidate"`
}

type candidate struct {
	PlaceLocation placeLocation `json:"placeLocation"`
}

type visitRecord struct {
	StartTime string `json:"startTime"`
	Visit     *visit `json:"visit"`
}

type locationRecord struct {
	Timestamp   string      `json:"timestamp"`
	TimestampMs json.Number `json:"timestampMs"`
	LatitudeE7  *int64      `json:"latitudeE7"`
	LongitudeE7 *int64      `json:"longitudeE7"`
}

// placeLocation is either a free-form string ("geo:48.1,11.5") or an object
// carrying the same text under latLng.
type placeLocation string

func (p *placeLocation) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = placeLocation(s)
		return nil
	}
	var obj struct {
		LatLng string `json:"latLng"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*p = placeLocation(obj.LatLng)
	return nil
}
