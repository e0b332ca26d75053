package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uninav/campusnav/internal/campusdata"
	"github.com/uninav/campusnav/internal/graph"
)

func TestMemoryBackend_Initialize(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend()
	assert.False(t, m.IsInitialized())

	require.NoError(t, m.Initialize("", false))
	assert.True(t, m.IsInitialized())

	require.NoError(t, m.Close())
	assert.False(t, m.IsInitialized())
}

func TestMemoryBackend_BulkLoadAndLoadGraph(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	campus := campusdata.BuildSampleCampus()

	m := NewMemoryBackend()
	require.NoError(t, m.Initialize("", false))
	require.NoError(t, m.BulkLoad(ctx, campus))

	// One canonical record per bidirectional pair.
	assert.Equal(t, campus.NodeCount(), m.NodeCount())
	assert.Equal(t, campus.DirectedEdgeCount()/2, m.EdgeCount())

	loaded, err := m.LoadGraph(ctx)
	require.NoError(t, err)

	assert.Equal(t, campus.NodeCount(), loaded.NodeCount())
	assert.Equal(t, campus.DirectedEdgeCount(), loaded.DirectedEdgeCount())
	assert.Equal(t, campus.Metadata()["campus_name"], loaded.Metadata()["campus_name"])

	// The pre-blocked corridor survives the round trip in both directions.
	assert.Len(t, loaded.BlockedEdges(), 2)
}

func TestMemoryBackend_BulkLoadReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	m := NewMemoryBackend()
	require.NoError(t, m.Initialize("", false))
	require.NoError(t, m.BulkLoad(ctx, campusdata.BuildSampleCampus()))

	empty := graph.NewCampusGraph()
	require.NoError(t, m.BulkLoad(ctx, empty))

	assert.Equal(t, 0, m.NodeCount())
	assert.Equal(t, 0, m.EdgeCount())
}

func TestMemoryBackend_AddNodesAndEdges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryBackend()
	require.NoError(t, m.Initialize("", false))

	nodes := []*graph.Node{
		{ID: "a", Name: "A", Features: graph.NewFeatureSet()},
		{ID: "b", Name: "B", Features: graph.NewFeatureSet()},
	}
	require.NoError(t, m.AddNodes(ctx, nodes))
	assert.Equal(t, 2, m.NodeCount())

	edge := &graph.Edge{
		FromNode:        "a",
		ToNode:          "b",
		Distance:        40,
		Surface:         graph.SurfaceSmoothPavement,
		Width:           2.0,
		IsBidirectional: true,
		Features:        graph.NewFeatureSet(),
		IsAccessible:    true,
	}
	require.NoError(t, m.AddEdges(ctx, []*graph.Edge{edge}))
	assert.Equal(t, 1, m.EdgeCount())

	loaded, err := m.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.NodeCount())
	assert.Equal(t, 2, loaded.DirectedEdgeCount())
}

func TestMemoryBackend_UpsertNode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryBackend()
	require.NoError(t, m.Initialize("", false))

	require.NoError(t, m.AddNodes(ctx, []*graph.Node{{ID: "a", Name: "Old", Features: graph.NewFeatureSet()}}))
	require.NoError(t, m.AddNodes(ctx, []*graph.Node{{ID: "a", Name: "New", Features: graph.NewFeatureSet()}}))

	assert.Equal(t, 1, m.NodeCount())

	loaded, err := m.LoadGraph(ctx)
	require.NoError(t, err)
	n, ok := loaded.Node("a")
	require.True(t, ok)
	assert.Equal(t, "New", n.Name)
}
