package routing

import (
	"fmt"
	"strings"

	"github.com/uninav/campusnav/internal/graph"
)

// RouteSegment is one traversed edge with resolved endpoint snapshots and
// running totals up to and including the segment.
type RouteSegment struct {
	From graph.Node
	To   graph.Node
	Edge graph.Edge

	// CumulativeDistance is the route distance in meters after this segment.
	CumulativeDistance float64

	// CumulativeElevationChange is net gain minus loss after this segment.
	CumulativeElevationChange float64
}

// Route is a completed pathfinding result: an ordered segment sequence
// plus aggregate metrics. Routes are pure computation results and hold
// snapshots only; they must never be used to mutate the graph.
type Route struct {
	Segments []RouteSegment

	// TotalDistance is the route length in meters.
	TotalDistance float64

	// TotalElevationGain and TotalElevationLoss are in meters.
	TotalElevationGain float64
	TotalElevationLoss float64

	// ShelteredPercentage is the share of distance under shelter, 0-100.
	ShelteredPercentage float64

	// RestStops lists the nodes along the route that offer a rest area.
	RestStops []graph.Node

	// EstimatedTimeMinutes assumes ~3 km/h plus a climb allowance.
	EstimatedTimeMinutes float64

	// AccessibilityScore grades the route 0-100, higher is better. It is
	// a reporting metric only and plays no part in the search.
	AccessibilityScore float64
}

// Directions generates human-readable turn-by-turn instructions followed
// by a summary line.
func (r *Route) Directions() []string {
	directions := make([]string, 0, len(r.Segments)+1)

	for i, seg := range r.Segments {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. From %s to %s (%.0fm)", i+1, seg.From.Name, seg.To.Name, seg.Edge.Distance)

		if slope := seg.Edge.Slope; slope > 2 || slope < -2 {
			desc, grade := "uphill", slope
			if slope < 0 {
				desc, grade = "downhill", -slope
			}
			fmt.Fprintf(&b, " - %s (%.1f%% grade)", desc, grade)
		}

		if seg.Edge.Surface != graph.SurfaceSmoothPavement {
			fmt.Fprintf(&b, " - %s", tagLabel(string(seg.Edge.Surface)))
		}

		if len(seg.Edge.Features) > 0 {
			labels := make([]string, 0, len(seg.Edge.Features))
			for _, f := range seg.Edge.Features.List() {
				labels = append(labels, tagLabel(string(f)))
			}
			fmt.Fprintf(&b, " - Features: %s", strings.Join(labels, ", "))
		}

		directions = append(directions, b.String())
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Total distance: %.0fm (~%.0f min)", r.TotalDistance, r.EstimatedTimeMinutes)
	if r.TotalElevationGain > 1 {
		fmt.Fprintf(&summary, "\nElevation gain: %.1fm", r.TotalElevationGain)
	}
	if r.ShelteredPercentage > 50 {
		fmt.Fprintf(&summary, "\n%.0f%% of route is sheltered", r.ShelteredPercentage)
	}
	if len(r.RestStops) > 0 {
		fmt.Fprintf(&summary, "\nRest stops available: %d", len(r.RestStops))
	}
	directions = append(directions, summary.String())

	return directions
}

// tagLabel turns a snake_case tag into display text.
func tagLabel(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

// SegmentExport is the external representation of one route segment.
type SegmentExport struct {
	From        NodeExport `json:"from"`
	To          NodeExport `json:"to"`
	Distance    float64    `json:"distance"`
	Slope       float64    `json:"slope"`
	Surface     string     `json:"surface"`
	Features    []string   `json:"features"`
	IsSheltered bool       `json:"is_sheltered"`
}

// NodeExport is the external representation of a route endpoint.
type NodeExport struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Building  *string  `json:"building"`
	Floor     int      `json:"floor"`
	Features  []string `json:"features"`
	IsIndoor  bool     `json:"is_indoor"`
	Notes     string   `json:"notes"`
}

// SummaryExport carries the aggregate route metrics.
type SummaryExport struct {
	TotalDistance        float64 `json:"total_distance"`
	TotalElevationGain   float64 `json:"total_elevation_gain"`
	TotalElevationLoss   float64 `json:"total_elevation_loss"`
	ShelteredPercentage  float64 `json:"sheltered_percentage"`
	EstimatedTimeMinutes float64 `json:"estimated_time_minutes"`
	AccessibilityScore   float64 `json:"accessibility_score"`
	RestStopsCount       int     `json:"rest_stops_count"`
}

// RouteExport is the full structured representation of a route.
type RouteExport struct {
	Segments   []SegmentExport `json:"segments"`
	Summary    SummaryExport   `json:"summary"`
	Directions []string        `json:"directions"`
}

func exportNode(n graph.Node) NodeExport {
	out := NodeExport{
		ID:        n.ID,
		Name:      n.Name,
		Latitude:  n.Latitude,
		Longitude: n.Longitude,
		Floor:     n.Floor,
		Features:  featureStrings(n.Features),
		IsIndoor:  n.IsIndoor,
		Notes:     n.Notes,
	}
	if n.Building != "" {
		building := n.Building
		out.Building = &building
	}
	return out
}

func featureStrings(set graph.FeatureSet) []string {
	list := set.List()
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = string(f)
	}
	return out
}

// Export converts the route to its external structured form.
func (r *Route) Export() RouteExport {
	segments := make([]SegmentExport, 0, len(r.Segments))
	for _, seg := range r.Segments {
		segments = append(segments, SegmentExport{
			From:        exportNode(seg.From),
			To:          exportNode(seg.To),
			Distance:    seg.Edge.Distance,
			Slope:       seg.Edge.Slope,
			Surface:     string(seg.Edge.Surface),
			Features:    featureStrings(seg.Edge.Features),
			IsSheltered: seg.Edge.IsSheltered,
		})
	}

	return RouteExport{
		Segments: segments,
		Summary: SummaryExport{
			TotalDistance:        r.TotalDistance,
			TotalElevationGain:   r.TotalElevationGain,
			TotalElevationLoss:   r.TotalElevationLoss,
			ShelteredPercentage:  r.ShelteredPercentage,
			EstimatedTimeMinutes: r.EstimatedTimeMinutes,
			AccessibilityScore:   r.AccessibilityScore,
			RestStopsCount:       len(r.RestStops),
		},
		Directions: r.Directions(),
	}
}
