// Package routing provides the multi-criteria pathfinding engine for
// campusnav: per-preference edge cost functions, a constrained A* search
// over the campus graph, and route construction with derived metrics.
package routing

import (
	"fmt"
	"math"

	"github.com/uninav/campusnav/internal/graph"
)

// Preference selects the optimization objective for a route request.
type Preference string

const (
	PreferenceShortest      Preference = "shortest"
	PreferenceFlattest      Preference = "flattest"
	PreferenceMostSheltered Preference = "most_sheltered"
	PreferenceWithRestStops Preference = "with_rest_stops"
	PreferenceBalanced      Preference = "balanced"
)

// preferences is the closed set of valid preference tags.
var preferences = map[Preference]bool{
	PreferenceShortest:      true,
	PreferenceFlattest:      true,
	PreferenceMostSheltered: true,
	PreferenceWithRestStops: true,
	PreferenceBalanced:      true,
}

// ParsePreference validates a preference tag from user input.
func ParsePreference(s string) (Preference, error) {
	p := Preference(s)
	if !preferences[p] {
		return "", fmt.Errorf("unknown routing preference %q", s)
	}
	return p, nil
}

// surfacePenalties maps each surface to its traversal difficulty
// multiplier, calibrated for wheelchair and mobility-aid users.
var surfacePenalties = map[graph.SurfaceType]float64{
	graph.SurfaceSmoothPavement: 1.0,
	graph.SurfaceIndoorTile:     1.0,
	graph.SurfaceIndoorCarpet:   1.15,
	graph.SurfaceRoughPavement:  1.35,
	graph.SurfaceBrick:          1.6,
	graph.SurfaceGravel:         2.5,
	graph.SurfaceGrass:          3.0,
}

func surfacePenalty(surface graph.SurfaceType) float64 {
	if p, ok := surfacePenalties[surface]; ok {
		return p
	}
	return 1.0
}

// EdgeCost returns the cost of traversing an edge under the given
// preference. A blocked edge costs +Inf, which callers must treat as
// "not traversable", never as an error. Costs for accessible edges are
// always non-negative.
func EdgeCost(edge graph.Edge, pref Preference) float64 {
	if !edge.IsAccessible {
		return math.Inf(1)
	}

	baseCost := edge.Distance
	absSlope := math.Abs(edge.Slope)

	switch pref {
	case PreferenceShortest:
		// Distance rules, but very steep segments still cost extra.
		if absSlope > 5 {
			return baseCost * (1 + absSlope/20)
		}
		return baseCost

	case PreferenceFlattest:
		var slopePenalty float64
		switch {
		case absSlope < 1:
			slopePenalty = 1.0
		case absSlope < 3:
			slopePenalty = 1.5
		case absSlope < 5:
			slopePenalty = 2.5
		case absSlope < 7:
			slopePenalty = 4.0
		default:
			slopePenalty = 8.0
		}

		directionPenalty := 1.0
		if edge.Slope > 0 {
			directionPenalty = 1.5
		}

		return baseCost * slopePenalty * directionPenalty * surfacePenalty(edge.Surface)

	case PreferenceMostSheltered:
		shelterPenalty := 3.0
		if edge.IsSheltered {
			shelterPenalty = 1.0
		}

		slopeConsideration := 1.0
		if absSlope > 5 {
			slopeConsideration = 1.5
		}

		return baseCost * shelterPenalty * slopeConsideration

	case PreferenceWithRestStops:
		slopePenalty := 1.0 + math.Pow(absSlope, 1.2)/15
		return baseCost * slopePenalty * surfacePenalty(edge.Surface)

	case PreferenceBalanced:
		var slopePenalty float64
		switch {
		case absSlope < 2:
			slopePenalty = 1.0
		case absSlope < 4:
			slopePenalty = 1.3
		case absSlope < 6:
			slopePenalty = 1.8
		default:
			slopePenalty = 2.5
		}

		// Ascending is harder than descending.
		if edge.Slope > 3 {
			slopePenalty *= 1.3
		} else if edge.Slope < -3 {
			slopePenalty *= 0.9
		}

		shelterBonus := 1.0
		if edge.IsSheltered {
			shelterBonus = 0.85
		}

		handrailBonus := 1.0
		if absSlope > 3 && edge.Features.Has(graph.FeatureHandrails) {
			handrailBonus = 0.9
		}

		return baseCost * slopePenalty * surfacePenalty(edge.Surface) * shelterBonus * handrailBonus
	}

	return baseCost
}
