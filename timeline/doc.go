/*
Package timeline normalizes location-history exports into time-ordered
sequences of observations.

Decoding and normalization are separate steps. Decode inspects the raw bytes
once and returns a Document tagged with its Format; Normalize walks the
records of that document and never fails on individual records.

# Supported formats

  - FormatSemanticSegments: {"semanticSegments": [...]} where each segment has
    a timelinePath of {time, point} entries or a visit with a startTime and
    topCandidate.placeLocation.
  - FormatVisitList: a top-level array of {startTime, visit.topCandidate.placeLocation}.
  - FormatLocations: {"locations": [...]} with timestamp (or timestampMs) and
    latitudeE7/longitudeE7 fixed-point coordinates.
  - FormatVehiclePositions: a binary GTFS-Realtime FeedMessage; every
    VehiclePosition with a position becomes an observation.

# Basic Usage

	doc, err := timeline.Decode(data)
	if err != nil {
	    // source-level failure, skip this source
	}
	res := timeline.Normalize(doc, timeline.YearRange{Min: 2021, Max: 2023})
	fmt.Println(len(res.Sequence), res.Stats.Malformed)

Free-form coordinate strings ("geo:48.1,11.5", "48.1°, 11.5°") must contain
exactly two decimal numbers; the first is the latitude. Pairs outside the
valid coordinate range are dropped and counted in Stats.OutOfRange since they
usually mean the export stores longitude first.
*/
package timeline
