package routing

import (
	"container/heap"
	"errors"
	"math"

	"github.com/uninav/campusnav/internal/graph"
)

// ErrNoRoute is returned when no route satisfies the request: either an
// endpoint is unknown to the graph, or every candidate path is blocked
// or violates the hard constraints. Callers cannot distinguish the two.
var ErrNoRoute = errors.New("no route found")

// Default hard constraints for a route request.
const (
	DefaultMaxSlope = 8.0
	DefaultMinWidth = 1.2
)

// alternativePreferences is the fixed order in which alternative routes
// are computed.
var alternativePreferences = []Preference{
	PreferenceShortest,
	PreferenceFlattest,
	PreferenceMostSheltered,
	PreferenceBalanced,
}

// Alternative pairs a preference with the route it produced.
type Alternative struct {
	Preference Preference
	Route      *Route
}

// Router runs constrained A* searches over a campus graph.
//
// The search is synchronous and holds no state between calls; a host
// wrapping it as a service must impose its own deadline, since the worst
// case visits the full reachable node set.
type Router struct {
	graph *graph.CampusGraph
}

// NewRouter creates a router over the given graph. Mutations to the
// graph are visible to subsequent calls immediately.
func NewRouter(g *graph.CampusGraph) *Router {
	return &Router{graph: g}
}

// frontierItem is one open-set entry. Ties in f are broken by lower g so
// the ordering never depends on non-comparable path data.
type frontierItem struct {
	nodeID string
	fScore float64
	gScore float64
}

type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].fScore != f[j].fScore {
		return f[i].fScore < f[j].fScore
	}
	return f[i].gScore < f[j].gScore
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// cameFromEntry records how a node was best reached during the search.
type cameFromEntry struct {
	prev string
	edge graph.Edge
}

// FindRoute runs an A* search from start to end under the given
// preference and hard constraints. Edges steeper than maxSlope percent
// or narrower than minWidth meters are rejected outright, regardless of
// preference. Returns ErrNoRoute when no acceptable path exists.
//
// The haversine heuristic assumes every edge costs at least its raw
// distance. Preferences whose multipliers can dip below 1.0 (the
// balanced downhill discount, shelter and handrail bonuses) make the
// search a fast approximation rather than strictly optimal.
func (r *Router) FindRoute(start, end string, pref Preference, maxSlope, minWidth float64) (*Route, error) {
	endNode, ok := r.graph.Node(end)
	if !ok || !r.graph.HasNode(start) {
		return nil, ErrNoRoute
	}

	open := &frontier{{nodeID: start, fScore: 0, gScore: 0}}
	heap.Init(open)

	closed := make(map[string]bool)
	gScores := map[string]float64{start: 0}
	cameFrom := make(map[string]cameFromEntry)

	for open.Len() > 0 {
		current := heap.Pop(open).(frontierItem)

		if closed[current.nodeID] {
			continue
		}

		if current.nodeID == end {
			return r.constructRoute(start, end, cameFrom)
		}

		closed[current.nodeID] = true

		for _, nb := range r.graph.Neighbors(current.nodeID, true) {
			if closed[nb.NodeID] {
				continue
			}

			if math.Abs(nb.Edge.Slope) > maxSlope || nb.Edge.Width < minWidth {
				continue
			}

			edgeCost := EdgeCost(nb.Edge, pref)
			if math.IsInf(edgeCost, 1) {
				continue
			}

			tentativeG := current.gScore + edgeCost
			if known, seen := gScores[nb.NodeID]; seen && tentativeG >= known {
				continue
			}

			gScores[nb.NodeID] = tentativeG
			cameFrom[nb.NodeID] = cameFromEntry{prev: current.nodeID, edge: nb.Edge}

			neighborNode, ok := r.graph.Node(nb.NodeID)
			if !ok {
				continue
			}
			h := haversineMeters(neighborNode.Latitude, neighborNode.Longitude, endNode.Latitude, endNode.Longitude)
			heap.Push(open, frontierItem{nodeID: nb.NodeID, fScore: tentativeG + h, gScore: tentativeG})
		}
	}

	return nil, ErrNoRoute
}

// FindAlternativeRoutes computes up to numAlternatives routes, one per
// preference in the fixed order shortest, flattest, most sheltered,
// balanced. Preferences that yield no route are silently omitted, so the
// result may be shorter than requested. Identical underlying paths are
// not deduplicated.
func (r *Router) FindAlternativeRoutes(start, end string, numAlternatives int) []Alternative {
	prefs := alternativePreferences
	if numAlternatives >= 0 && numAlternatives < len(prefs) {
		prefs = prefs[:numAlternatives]
	}

	var alternatives []Alternative
	for _, pref := range prefs {
		route, err := r.FindRoute(start, end, pref, DefaultMaxSlope, DefaultMinWidth)
		if err != nil {
			continue
		}
		alternatives = append(alternatives, Alternative{Preference: pref, Route: route})
	}
	return alternatives
}

// constructRoute walks the predecessor map back from end, then builds the
// segments and aggregate metrics in forward order.
func (r *Router) constructRoute(start, end string, cameFrom map[string]cameFromEntry) (*Route, error) {
	var edges []graph.Edge
	for current := end; current != start; {
		entry, ok := cameFrom[current]
		if !ok {
			return nil, ErrNoRoute
		}
		edges = append(edges, entry.edge)
		current = entry.prev
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	route := &Route{Segments: make([]RouteSegment, 0, len(edges))}
	shelteredDistance := 0.0

	for _, edge := range edges {
		fromNode, _ := r.graph.Node(edge.FromNode)
		toNode, _ := r.graph.Node(edge.ToNode)

		elevationChange := edge.Distance * edge.Slope / 100
		if elevationChange > 0 {
			route.TotalElevationGain += elevationChange
		} else {
			route.TotalElevationLoss += -elevationChange
		}

		route.Segments = append(route.Segments, RouteSegment{
			From:                      fromNode,
			To:                        toNode,
			Edge:                      edge,
			CumulativeDistance:        route.TotalDistance + edge.Distance,
			CumulativeElevationChange: route.TotalElevationGain - route.TotalElevationLoss,
		})

		route.TotalDistance += edge.Distance

		if edge.IsSheltered {
			shelteredDistance += edge.Distance
		}

		if toNode.Features.Has(graph.FeatureRestArea) {
			route.RestStops = append(route.RestStops, toNode)
		}
	}

	if route.TotalDistance > 0 {
		route.ShelteredPercentage = shelteredDistance / route.TotalDistance * 100
	}

	// ~3 km/h walking pace with mobility aids, plus a climb allowance.
	baseTimeHours := route.TotalDistance / 3000
	climbHours := (route.TotalElevationGain / 10) / 60
	route.EstimatedTimeMinutes = (baseTimeHours + climbHours) * 60

	route.AccessibilityScore = accessibilityScore(route.Segments)

	return route, nil
}

// accessibilityScore grades a route 0-100 from its segment attributes.
func accessibilityScore(segments []RouteSegment) float64 {
	if len(segments) == 0 {
		return 0
	}

	score := 100.0
	for _, seg := range segments {
		edge := seg.Edge

		if absSlope := math.Abs(edge.Slope); absSlope > 5 {
			score -= absSlope * 2
		}

		switch edge.Surface {
		case graph.SurfaceGravel, graph.SurfaceGrass:
			score -= 10
		case graph.SurfaceBrick, graph.SurfaceRoughPavement:
			score -= 5
		}

		if edge.IsSheltered {
			score += 2
		}

		score += float64(len(edge.Features)) * 3
	}

	return math.Max(0, math.Min(100, score))
}
