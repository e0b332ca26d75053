package routing

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/uninav/campusnav/internal/graph"
)

// RouteFeatureCollection converts a route into a GeoJSON feature
// collection: one LineString per segment carrying its accessibility
// attributes, plus Point features for the start and end nodes.
func RouteFeatureCollection(route *Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, seg := range route.Segments {
		line := geojson.NewLineStringFeature([][]float64{
			{seg.From.Longitude, seg.From.Latitude},
			{seg.To.Longitude, seg.To.Latitude},
		})
		line.SetProperty("segment", i+1)
		line.SetProperty("from", seg.From.ID)
		line.SetProperty("to", seg.To.ID)
		line.SetProperty("distance", seg.Edge.Distance)
		line.SetProperty("slope", seg.Edge.Slope)
		line.SetProperty("surface", string(seg.Edge.Surface))
		line.SetProperty("is_sheltered", seg.Edge.IsSheltered)
		line.SetProperty("features", featureStrings(seg.Edge.Features))
		fc.AddFeature(line)
	}

	if n := len(route.Segments); n > 0 {
		start := route.Segments[0].From
		end := route.Segments[n-1].To

		startPoint := geojson.NewPointFeature([]float64{start.Longitude, start.Latitude})
		startPoint.SetProperty("role", "start")
		startPoint.SetProperty("id", start.ID)
		startPoint.SetProperty("name", start.Name)
		fc.AddFeature(startPoint)

		endPoint := geojson.NewPointFeature([]float64{end.Longitude, end.Latitude})
		endPoint.SetProperty("role", "end")
		endPoint.SetProperty("id", end.ID)
		endPoint.SetProperty("name", end.Name)
		fc.AddFeature(endPoint)
	}

	return fc
}

// GraphFeatureCollection converts the whole campus graph into GeoJSON:
// a Point per node and a LineString per directed edge record.
func GraphFeatureCollection(g *graph.CampusGraph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, node := range g.Nodes() {
		point := geojson.NewPointFeature([]float64{node.Longitude, node.Latitude})
		point.SetProperty("id", node.ID)
		point.SetProperty("name", node.Name)
		if node.Building != "" {
			point.SetProperty("building", node.Building)
		}
		point.SetProperty("floor", node.Floor)
		point.SetProperty("is_indoor", node.IsIndoor)
		point.SetProperty("features", featureStrings(node.Features))
		fc.AddFeature(point)
	}

	for _, edge := range g.Edges() {
		from, okFrom := g.Node(edge.FromNode)
		to, okTo := g.Node(edge.ToNode)
		if !okFrom || !okTo {
			continue
		}

		line := geojson.NewLineStringFeature([][]float64{
			{from.Longitude, from.Latitude},
			{to.Longitude, to.Latitude},
		})
		line.SetProperty("from", edge.FromNode)
		line.SetProperty("to", edge.ToNode)
		line.SetProperty("distance", edge.Distance)
		line.SetProperty("slope", edge.Slope)
		line.SetProperty("surface", string(edge.Surface))
		line.SetProperty("width", edge.Width)
		line.SetProperty("is_accessible", edge.IsAccessible)
		line.SetProperty("is_sheltered", edge.IsSheltered)
		fc.AddFeature(line)
	}

	return fc
}
