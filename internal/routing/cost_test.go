package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uninav/campusnav/internal/graph"
)

func costEdge(distance, slope float64) graph.Edge {
	return graph.Edge{
		FromNode:     "a",
		ToNode:       "b",
		Distance:     distance,
		Slope:        slope,
		Surface:      graph.SurfaceSmoothPavement,
		Width:        2.0,
		Features:     graph.NewFeatureSet(),
		IsAccessible: true,
	}
}

func TestParsePreference(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		p, err := ParsePreference("most_sheltered")
		require.NoError(t, err)
		assert.Equal(t, PreferenceMostSheltered, p)
	})

	t.Run("Unknown", func(t *testing.T) {
		t.Parallel()
		_, err := ParsePreference("fastest")
		assert.Error(t, err)
	})
}

func TestEdgeCost_Blocked(t *testing.T) {
	t.Parallel()

	edge := costEdge(100, 0)
	edge.IsAccessible = false

	for _, pref := range []Preference{
		PreferenceShortest, PreferenceFlattest, PreferenceMostSheltered,
		PreferenceWithRestStops, PreferenceBalanced,
	} {
		assert.True(t, math.IsInf(EdgeCost(edge, pref), 1), "preference %s", pref)
	}
}

func TestEdgeCost_Shortest(t *testing.T) {
	t.Parallel()

	t.Run("FlatIsRawDistance", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100.0, EdgeCost(costEdge(100, 0), PreferenceShortest))
	})

	t.Run("GentleSlopeIgnored", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100.0, EdgeCost(costEdge(100, 4.9), PreferenceShortest))
	})

	t.Run("SteepSlopeSurcharged", func(t *testing.T) {
		t.Parallel()
		// 100 * (1 + 6/20)
		assert.InDelta(t, 130.0, EdgeCost(costEdge(100, 6), PreferenceShortest), 1e-9)
		// Descending is just as steep.
		assert.InDelta(t, 130.0, EdgeCost(costEdge(100, -6), PreferenceShortest), 1e-9)
	})
}

func TestEdgeCost_Flattest(t *testing.T) {
	t.Parallel()

	t.Run("UphillCostsMoreThanDownhill", func(t *testing.T) {
		t.Parallel()
		up := EdgeCost(costEdge(100, 2), PreferenceFlattest)
		down := EdgeCost(costEdge(100, -2), PreferenceFlattest)

		// 100 * 1.5 * 1.5 uphill vs 100 * 1.5 downhill.
		assert.InDelta(t, 225.0, up, 1e-9)
		assert.InDelta(t, 150.0, down, 1e-9)
	})

	t.Run("SlopeBandsEscalate", func(t *testing.T) {
		t.Parallel()
		flat := EdgeCost(costEdge(100, -0.5), PreferenceFlattest)
		moderate := EdgeCost(costEdge(100, -4), PreferenceFlattest)
		steep := EdgeCost(costEdge(100, -8), PreferenceFlattest)

		assert.InDelta(t, 100.0, flat, 1e-9)
		assert.InDelta(t, 250.0, moderate, 1e-9)
		assert.InDelta(t, 800.0, steep, 1e-9)
	})

	t.Run("SurfaceMultiplies", func(t *testing.T) {
		t.Parallel()
		edge := costEdge(100, -0.5)
		edge.Surface = graph.SurfaceGrass
		assert.InDelta(t, 300.0, EdgeCost(edge, PreferenceFlattest), 1e-9)
	})
}

func TestEdgeCost_MostSheltered(t *testing.T) {
	t.Parallel()

	sheltered := costEdge(100, 0)
	sheltered.IsSheltered = true
	exposed := costEdge(100, 0)

	assert.InDelta(t, 100.0, EdgeCost(sheltered, PreferenceMostSheltered), 1e-9)
	assert.InDelta(t, 300.0, EdgeCost(exposed, PreferenceMostSheltered), 1e-9)

	steepExposed := costEdge(100, 6)
	assert.InDelta(t, 450.0, EdgeCost(steepExposed, PreferenceMostSheltered), 1e-9)
}

func TestEdgeCost_WithRestStops(t *testing.T) {
	t.Parallel()

	flat := EdgeCost(costEdge(100, 0), PreferenceWithRestStops)
	assert.InDelta(t, 100.0, flat, 1e-9)

	// 100 * (1 + 4^1.2/15)
	sloped := EdgeCost(costEdge(100, 4), PreferenceWithRestStops)
	expected := 100 * (1 + math.Pow(4, 1.2)/15)
	assert.InDelta(t, expected, sloped, 1e-9)

	gravel := costEdge(100, 0)
	gravel.Surface = graph.SurfaceGravel
	assert.InDelta(t, 250.0, EdgeCost(gravel, PreferenceWithRestStops), 1e-9)
}

func TestEdgeCost_Balanced(t *testing.T) {
	t.Parallel()

	t.Run("FlatSmoothIsRawDistance", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 100.0, EdgeCost(costEdge(100, 0), PreferenceBalanced), 1e-9)
	})

	t.Run("ShelterDiscount", func(t *testing.T) {
		t.Parallel()
		edge := costEdge(100, 0)
		edge.IsSheltered = true
		assert.InDelta(t, 85.0, EdgeCost(edge, PreferenceBalanced), 1e-9)
	})

	t.Run("UphillSurcharge", func(t *testing.T) {
		t.Parallel()
		// 100 * 1.8 * 1.3
		assert.InDelta(t, 234.0, EdgeCost(costEdge(100, 5), PreferenceBalanced), 1e-9)
	})

	t.Run("DownhillDiscount", func(t *testing.T) {
		t.Parallel()
		// 100 * 1.8 * 0.9
		assert.InDelta(t, 162.0, EdgeCost(costEdge(100, -5), PreferenceBalanced), 1e-9)
	})

	t.Run("HandrailsEaseSteepSegments", func(t *testing.T) {
		t.Parallel()
		plain := costEdge(100, 5)
		railed := costEdge(100, 5)
		railed.Features = graph.NewFeatureSet(graph.FeatureHandrails)

		assert.InDelta(t, EdgeCost(plain, PreferenceBalanced)*0.9, EdgeCost(railed, PreferenceBalanced), 1e-9)
	})

	t.Run("HandrailsIrrelevantOnFlat", func(t *testing.T) {
		t.Parallel()
		railed := costEdge(100, 0)
		railed.Features = graph.NewFeatureSet(graph.FeatureHandrails)
		assert.InDelta(t, 100.0, EdgeCost(railed, PreferenceBalanced), 1e-9)
	})
}

func TestEdgeCost_NonNegative(t *testing.T) {
	t.Parallel()

	surfaces := []graph.SurfaceType{
		graph.SurfaceSmoothPavement, graph.SurfaceRoughPavement, graph.SurfaceBrick,
		graph.SurfaceGravel, graph.SurfaceGrass, graph.SurfaceIndoorTile, graph.SurfaceIndoorCarpet,
	}
	prefs := []Preference{
		PreferenceShortest, PreferenceFlattest, PreferenceMostSheltered,
		PreferenceWithRestStops, PreferenceBalanced,
	}

	for _, surface := range surfaces {
		for _, slope := range []float64{-12, -5, 0, 5, 12} {
			for _, pref := range prefs {
				edge := costEdge(50, slope)
				edge.Surface = surface
				cost := EdgeCost(edge, pref)
				assert.GreaterOrEqual(t, cost, 0.0, "surface %s slope %.0f pref %s", surface, slope, pref)
				assert.False(t, math.IsInf(cost, 1))
			}
		}
	}
}
