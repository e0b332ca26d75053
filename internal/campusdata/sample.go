// Package campusdata provides the bundled demo campus and the live
// reload watcher for campus documents.
package campusdata

import (
	"time"

	"github.com/uninav/campusnav/internal/graph"
)

// SampleCampusName is the metadata campus_name of the demo graph.
const SampleCampusName = "University of Adelaide - North Terrace Campus"

// BuildSampleCampus constructs the demo campus: a cluster of North
// Terrace buildings with surveyed distances, grades, and surfaces, plus
// one pre-blocked indoor path to exercise rerouting.
func BuildSampleCampus() *graph.CampusGraph {
	g := graph.NewCampusGraph()
	g.SetMetadata(map[string]any{
		"campus_name":  SampleCampusName,
		"last_updated": time.Now().UTC().Format(time.RFC3339),
		"contributors": []string{"campusnav sample data"},
	})

	for _, n := range sampleNodes() {
		node := n
		g.AddNode(&node)
	}
	for _, e := range sampleEdges() {
		edge := e
		g.AddEdge(&edge)
	}

	// One library corridor is closed for works; keeps the demo honest
	// about rerouting around blocked paths.
	until := time.Now().Add(14 * 24 * time.Hour)
	g.MarkPathBlocked("bs_main_entrance", "bs_level1", "Construction - temporary path closure", &until)

	return g
}

func sampleNodes() []graph.Node {
	return []graph.Node{
		{
			ID:        "bs_main_entrance",
			Name:      "Barr Smith Library - Main Entrance (Ground Level)",
			Latitude:  -34.919251817144605,
			Longitude: 138.60429514698788,
			Building:  "Barr Smith Library",
			Features: graph.NewFeatureSet(
				graph.FeatureAutomaticDoor,
				graph.FeatureElevator,
				graph.FeatureAccessibleBathroom,
				graph.FeatureRestArea,
			),
			Notes: "Main accessible entrance with elevator access to all floors",
		},
		{
			ID:        "bs_north_entrance",
			Name:      "Barr Smith Library - North Entrance",
			Latitude:  -34.91877896564302,
			Longitude: 138.60424418502268,
			Building:  "Barr Smith Library",
			Features:  graph.NewFeatureSet(graph.FeatureAutomaticDoor, graph.FeatureRamp),
			Notes:     "Alternative entrance with ramped access",
		},
		{
			ID:        "bs_level1",
			Name:      "Barr Smith Library - Level 1",
			Latitude:  -34.918619444918605,
			Longitude: 138.60455312015242,
			Building:  "Barr Smith Library",
			Floor:     1,
			IsIndoor:  true,
			Features: graph.NewFeatureSet(
				graph.FeatureElevator,
				graph.FeatureRestArea,
				graph.FeatureAccessibleBathroom,
			),
		},
		{
			ID:        "hub_central",
			Name:      "Hub Central - Main Entrance",
			Latitude:  -34.91955663264137,
			Longitude: 138.60421415275155,
			Building:  "Hub Central",
			Features: graph.NewFeatureSet(
				graph.FeatureAutomaticDoor,
				graph.FeatureElevator,
				graph.FeatureRestArea,
				graph.FeatureAccessibleBathroom,
			),
			Notes: "Primary student services location",
		},
		{
			ID:        "hub_east_entrance",
			Name:      "Hub Central - East Entrance",
			Latitude:  -34.919770155409076,
			Longitude: 138.60481408963486,
			Building:  "Hub Central",
			Features:  graph.NewFeatureSet(graph.FeatureAutomaticDoor, graph.FeatureRamp),
		},
		{
			ID:        "ingkarni_wardli_main",
			Name:      "Ingkarni Wardli - Main Entrance",
			Latitude:  -34.91890907984514,
			Longitude: 138.60504954252696,
			Building:  "Ingkarni Wardli",
			Features: graph.NewFeatureSet(
				graph.FeatureAutomaticDoor,
				graph.FeatureElevator,
				graph.FeatureAccessibleBathroom,
			),
		},
		{
			ID:        "napier_main",
			Name:      "Napier Building - Main Entrance",
			Latitude:  -34.919935220248874,
			Longitude: 138.60545318096382,
			Building:  "Napier Building",
			Features:  graph.NewFeatureSet(graph.FeatureAutomaticDoor, graph.FeatureElevator),
		},
		{
			ID:        "napier_south",
			Name:      "Napier Building - South Entrance (Ramped)",
			Latitude:  -34.92020445592288,
			Longitude: 138.6057735925189,
			Building:  "Napier Building",
			Features:  graph.NewFeatureSet(graph.FeatureRamp, graph.FeatureHandrails),
			Notes:     "Ramped access - easier approach than main entrance",
		},
		{
			ID:        "scott_theatre",
			Name:      "Scott Theatre - Accessible Entrance",
			Latitude:  -34.91880956495803,
			Longitude: 138.60281365632395,
			Building:  "Scott Theatre",
			Features:  graph.NewFeatureSet(graph.FeatureAutomaticDoor, graph.FeatureRamp),
		},
		{
			ID:        "eng_north_main",
			Name:      "Engineering North - Main Entrance",
			Latitude:  -34.91874719497902,
			Longitude: 138.6057857055029,
			Building:  "Engineering North",
			Features: graph.NewFeatureSet(
				graph.FeatureAutomaticDoor,
				graph.FeatureElevator,
				graph.FeatureAccessibleBathroom,
			),
		},
		{
			ID:        "eng_south_1st_floor",
			Name:      "Engineering South 1st Floor Entrance",
			Latitude:  -34.91959891359262,
			Longitude: 138.60557396196234,
			Building:  "Engineering South",
			Floor:     1,
			Features:  graph.NewFeatureSet(graph.FeatureRestArea),
		},
		{
			ID:        "eng_south_ground_floor",
			Name:      "Engineering South Ground Floor Entrance",
			Latitude:  -34.919154404000565,
			Longitude: 138.60572351021352,
			Building:  "Engineering South",
			Features:  graph.NewFeatureSet(graph.FeatureAutomaticDoor),
		},
		{
			ID:        "union_house",
			Name:      "Union House - Main Entrance",
			Latitude:  -34.91863853827505,
			Longitude: 138.60364727115444,
			Building:  "Union House",
			Features: graph.NewFeatureSet(
				graph.FeatureAutomaticDoor,
				graph.FeatureRestArea,
				graph.FeatureAccessibleBathroom,
				graph.FeatureElevator,
			),
			Notes: "Food court and student spaces",
		},
		{
			ID:        "union_courtyard",
			Name:      "Union House - Courtyard Entrance",
			Latitude:  -34.91829152873983,
			Longitude: 138.60360593542117,
			Features:  graph.NewFeatureSet(graph.FeatureRestArea),
			Notes:     "Outdoor seating area",
		},
		{
			ID:        "horace_lamb",
			Name:      "Horace Lamb Building - Entrance",
			Latitude:  -34.91907626149523,
			Longitude: 138.6049329686916,
			Building:  "Horace Lamb",
			Features:  graph.NewFeatureSet(graph.FeatureAutomaticDoor, graph.FeatureElevator),
		},
		{
			ID:        "library_courtyard",
			Name:      "Library Courtyard / Barr Smith Lawns",
			Latitude:  -34.91839566654292,
			Longitude: 138.60428878165683,
			Features:  graph.NewFeatureSet(graph.FeatureRestArea),
			Notes:     "Quiet outdoor space with seating",
		},
		{
			ID:        "post_office_intersection",
			Name:      "Post Office Intersection",
			Latitude:  -34.91980688763416,
			Longitude: 138.6051202466815,
			Features:  graph.NewFeatureSet(graph.FeatureRestArea),
		},
		{
			ID:        "elderhall",
			Name:      "Elder Hall",
			Latitude:  -34.92038516757291,
			Longitude: 138.60500411061034,
			Building:  "Elder Hall",
			Features:  graph.NewFeatureSet(graph.FeatureRamp, graph.FeatureRestArea),
		},
		{
			ID:        "bonythonhall",
			Name:      "Bonython Hall",
			Latitude:  -34.92070163213288,
			Longitude: 138.6054845332078,
			Building:  "Bonython Hall",
			Features:  graph.NewFeatureSet(graph.FeatureRamp),
			Notes:     "sloped",
		},
	}
}

func sampleEdges() []graph.Edge {
	return []graph.Edge{
		{
			FromNode: "hub_central", ToNode: "hub_east_entrance",
			Distance: 30, Surface: graph.SurfaceIndoorTile, Width: 10,
			IsBidirectional: true, IsSheltered: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureSheltered),
		},
		{
			FromNode: "hub_central", ToNode: "bs_main_entrance",
			Distance: 110, Slope: 1.8, Surface: graph.SurfaceSmoothPavement, Width: 3.5,
			IsBidirectional: true, IsSheltered: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureSheltered, graph.FeatureElevator),
		},
		{
			FromNode: "hub_central", ToNode: "ingkarni_wardli_main",
			Distance: 85, Slope: -2, Surface: graph.SurfaceSmoothPavement, Width: 3.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureElevator),
		},
		{
			FromNode: "hub_central", ToNode: "horace_lamb",
			Distance: 95, Slope: 1.2, Surface: graph.SurfaceSmoothPavement, Width: 3.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(),
		},
		{
			FromNode: "hub_central", ToNode: "eng_south_1st_floor",
			Distance: 70, Slope: -10, Surface: graph.SurfaceSmoothPavement, Width: 3.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureElevator, graph.FeatureRamp),
		},
		{
			FromNode: "bs_main_entrance", ToNode: "bs_north_entrance",
			Distance: 45, Surface: graph.SurfaceIndoorTile, Width: 3.0,
			IsBidirectional: true, IsSheltered: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureSheltered, graph.FeatureElevator),
		},
		{
			FromNode: "bs_main_entrance", ToNode: "library_courtyard",
			Distance: 45, Slope: 0.5, Surface: graph.SurfaceSmoothPavement, Width: 2.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(),
		},
		{
			FromNode: "bs_main_entrance", ToNode: "bs_level1",
			Distance: 15, Surface: graph.SurfaceIndoorTile, Width: 2.0,
			IsBidirectional: true, IsSheltered: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureElevator, graph.FeatureSheltered),
		},
		{
			FromNode: "library_courtyard", ToNode: "union_house",
			Distance: 55, Slope: 0.8, Surface: graph.SurfaceSmoothPavement, Width: 3.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(),
		},
		{
			FromNode: "union_house", ToNode: "union_courtyard",
			Distance: 30, Surface: graph.SurfaceBrick, Width: 3.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRestArea),
		},
		{
			FromNode: "union_courtyard", ToNode: "scott_theatre",
			Distance: 85, Slope: -2.2, Surface: graph.SurfaceSmoothPavement, Width: 2.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp),
		},
		{
			FromNode: "scott_theatre", ToNode: "hub_central",
			Distance: 180, Surface: graph.SurfaceRoughPavement, Width: 2.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp),
		},
		{
			FromNode: "horace_lamb", ToNode: "napier_main",
			Distance: 75, Slope: 3.5, Surface: graph.SurfaceSmoothPavement, Width: 2.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(),
		},
		{
			FromNode: "napier_south", ToNode: "napier_main",
			Distance: 40, Surface: graph.SurfaceIndoorTile, Width: 3.5,
			IsBidirectional: true, IsSheltered: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureSheltered),
		},
		{
			FromNode: "post_office_intersection", ToNode: "hub_central",
			Distance: 25, Surface: graph.SurfaceSmoothPavement, Width: 6.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureSheltered),
		},
		{
			FromNode: "post_office_intersection", ToNode: "hub_east_entrance",
			Distance: 20, Surface: graph.SurfaceSmoothPavement, Width: 5.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureWellLit),
		},
		{
			FromNode: "post_office_intersection", ToNode: "ingkarni_wardli_main",
			Distance: 60, Surface: graph.SurfaceSmoothPavement, Width: 4.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp, graph.FeatureElevator),
		},
		{
			FromNode: "napier_south", ToNode: "elderhall",
			Distance: 50, Slope: 2.0, Surface: graph.SurfaceSmoothPavement, Width: 5.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp),
		},
		{
			FromNode: "napier_south", ToNode: "bonythonhall",
			Distance: 70, Slope: 5.0, Surface: graph.SurfaceSmoothPavement, Width: 7.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp, graph.FeatureRestArea),
		},
		{
			FromNode: "napier_main", ToNode: "eng_south_1st_floor",
			Distance: 30, Surface: graph.SurfaceSmoothPavement, Width: 3.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp),
		},
		{
			FromNode: "napier_main", ToNode: "elderhall",
			Distance: 100, Slope: 7.0, Surface: graph.SurfaceSmoothPavement, Width: 6.5,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRamp, graph.FeatureElevator),
		},
		{
			FromNode: "eng_north_main", ToNode: "ingkarni_wardli_main",
			Distance: 70, Surface: graph.SurfaceIndoorTile, Width: 4.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureSheltered),
		},
		{
			FromNode: "eng_south_ground_floor", ToNode: "horace_lamb",
			Distance: 60, Surface: graph.SurfaceRoughPavement, Width: 8.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureAutomaticDoor),
		},
		{
			FromNode: "eng_south_ground_floor", ToNode: "eng_north_main",
			Distance: 50, Surface: graph.SurfaceIndoorTile, Width: 5.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureAutomaticDoor, graph.FeatureSheltered),
		},
		{
			FromNode: "bonythonhall", ToNode: "elderhall",
			Distance: 40, Surface: graph.SurfaceSmoothPavement, Width: 7.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(graph.FeatureRestArea, graph.FeatureWellLit),
		},
		{
			FromNode: "ingkarni_wardli_main", ToNode: "horace_lamb",
			Distance: 65, Slope: 0.5, Surface: graph.SurfaceSmoothPavement, Width: 3.0,
			IsBidirectional: true, IsAccessible: true,
			Features: graph.NewFeatureSet(),
		},
	}
}
