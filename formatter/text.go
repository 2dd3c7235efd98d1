package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/theoremus-urban-solutions/nexuspoint/utils"
)

// Text writes the human-readable report to w.
func Text(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	for _, f := range r.Failures {
		fmt.Fprintf(bw, "Warning: skipped %s: %s\n", f.Path, f.Reason)
	}
	for _, s := range r.Sources {
		fmt.Fprintf(bw, "Successfully processed %s, found %d %s.\n", s.Name, s.Stats.Kept, utils.Plural(s.Stats.Kept, "event", "events"))
	}

	if r.Result == nil {
		fmt.Fprintln(bw, "Need at least two valid timeline files to compare.")
		fmt.Fprintf(bw, "\nTotal Execution Time: %s\n", utils.PresentableDuration(r.Elapsed))
		return bw.Flush()
	}

	for _, p := range r.Result.Pairs {
		fmt.Fprintf(bw, "\n--- Comparing %s and %s ---\n", p.SourceName, p.TargetName)
		if p.Matches == 0 {
			fmt.Fprintln(bw, "No matches found.")
			continue
		}
		fmt.Fprintf(bw, "Found %d %s. Closest match in this pair: %s.\n",
			p.Matches, utils.Plural(p.Matches, "match", "matches"), utils.PresentableDistance(p.Closest.DistanceKm))
	}

	fmt.Fprintln(bw, "\n--- Overall Results ---")
	fmt.Fprintf(bw, "Total matches found across all files: %d\n", r.Result.TotalMatches)

	if best := r.Result.Best; best != nil {
		fmt.Fprintf(bw, "\nThe absolute closest match was between '%s' and '%s':\n", best.SourceName, best.TargetName)
		fmt.Fprintf(bw, "  Location Name: %s\n", r.PlaceName)
		fmt.Fprintf(bw, "  Distance: %s\n", utils.PresentableDistance(best.DistanceKm))
		fmt.Fprintf(bw, "  Time Difference: %s\n", utils.PresentableDuration(best.TimeDelta))
		fmt.Fprintf(bw, "  - %s Location: Lat %s, Lon %s\n", best.SourceName, coord(best.Source.Latitude), coord(best.Source.Longitude))
		fmt.Fprintf(bw, "    - Timestamp: %s\n", utils.FormatReportTime(r.SourceLocal))
		fmt.Fprintf(bw, "  - %s Location: Lat %s, Lon %s\n", best.TargetName, coord(best.Target.Latitude), coord(best.Target.Longitude))
		fmt.Fprintf(bw, "    - Timestamp: %s\n", utils.FormatReportTime(r.TargetLocal))
	}

	fmt.Fprintf(bw, "\nTotal Execution Time: %s\n", utils.PresentableDuration(r.Elapsed))
	return bw.Flush()
}

// coord prints the shortest representation that round-trips.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
