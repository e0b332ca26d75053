package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uninav/campusnav/internal/campusdata"
	"github.com/uninav/campusnav/internal/graph"
)

func newTestBadger(t *testing.T) *BadgerBackend {
	t.Helper()

	b := NewBadgerBackend()
	require.NoError(t, b.Initialize(t.TempDir(), false))
	t.Cleanup(func() {
		_ = b.Close()
	})
	return b
}

func TestBadgerBackend_BulkLoadAndLoadGraph(t *testing.T) {
	ctx := context.Background()
	campus := campusdata.BuildSampleCampus()

	b := newTestBadger(t)
	require.NoError(t, b.BulkLoad(ctx, campus))

	assert.Equal(t, campus.NodeCount(), b.NodeCount())
	assert.Equal(t, campus.DirectedEdgeCount()/2, b.EdgeCount())

	loaded, err := b.LoadGraph(ctx)
	require.NoError(t, err)

	assert.Equal(t, campus.NodeCount(), loaded.NodeCount())
	assert.Equal(t, campus.DirectedEdgeCount(), loaded.DirectedEdgeCount())
	assert.Equal(t, campus.Metadata()["campus_name"], loaded.Metadata()["campus_name"])

	// The pre-blocked corridor survives the round trip in both directions,
	// reason and expiry included.
	blocked := loaded.BlockedEdges()
	require.Len(t, blocked, 2)
	for _, e := range blocked {
		assert.Equal(t, "Construction - temporary path closure", e.BlockedReason)
		require.NotNil(t, e.BlockedUntil)
	}
}

func TestBadgerBackend_CountsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b := NewBadgerBackend()
	require.NoError(t, b.Initialize(dir, false))
	require.NoError(t, b.BulkLoad(ctx, campusdata.BuildSampleCampus()))

	wantNodes := b.NodeCount()
	wantEdges := b.EdgeCount()
	require.NoError(t, b.Close())

	reopened := NewBadgerBackend()
	require.NoError(t, reopened.Initialize(dir, false))
	defer reopened.Close()

	assert.Equal(t, wantNodes, reopened.NodeCount())
	assert.Equal(t, wantEdges, reopened.EdgeCount())

	loaded, err := reopened.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantNodes, loaded.NodeCount())
}

func TestBadgerBackend_BulkLoadReplaces(t *testing.T) {
	ctx := context.Background()

	b := newTestBadger(t)
	require.NoError(t, b.BulkLoad(ctx, campusdata.BuildSampleCampus()))
	require.NoError(t, b.BulkLoad(ctx, graph.NewCampusGraph()))

	assert.Equal(t, 0, b.NodeCount())
	assert.Equal(t, 0, b.EdgeCount())

	loaded, err := b.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.NodeCount())
}

func TestBadgerBackend_AddNodes(t *testing.T) {
	ctx := context.Background()
	b := newTestBadger(t)

	require.NoError(t, b.AddNodes(ctx, []*graph.Node{
		{ID: "a", Name: "A", Features: graph.NewFeatureSet()},
		{ID: "b", Name: "B", Features: graph.NewFeatureSet()},
	}))
	assert.Equal(t, 2, b.NodeCount())

	// Re-adding an existing node overwrites without inflating the count.
	require.NoError(t, b.AddNodes(ctx, []*graph.Node{
		{ID: "a", Name: "A renamed", Features: graph.NewFeatureSet()},
	}))
	assert.Equal(t, 2, b.NodeCount())

	loaded, err := b.LoadGraph(ctx)
	require.NoError(t, err)
	n, ok := loaded.Node("a")
	require.True(t, ok)
	assert.Equal(t, "A renamed", n.Name)
}

func TestBadgerBackend_AddEdges(t *testing.T) {
	ctx := context.Background()
	b := newTestBadger(t)

	require.NoError(t, b.AddNodes(ctx, []*graph.Node{
		{ID: "a", Name: "A", Features: graph.NewFeatureSet()},
		{ID: "b", Name: "B", Features: graph.NewFeatureSet()},
		{ID: "c", Name: "C", Features: graph.NewFeatureSet()},
	}))

	edge := func(from, to string) *graph.Edge {
		return &graph.Edge{
			FromNode:        from,
			ToNode:          to,
			Distance:        50,
			Surface:         graph.SurfaceSmoothPavement,
			Width:           2.0,
			IsBidirectional: true,
			Features:        graph.NewFeatureSet(),
			IsAccessible:    true,
		}
	}

	require.NoError(t, b.AddEdges(ctx, []*graph.Edge{edge("a", "b")}))
	require.NoError(t, b.AddEdges(ctx, []*graph.Edge{edge("b", "c")}))
	assert.Equal(t, 2, b.EdgeCount())

	loaded, err := b.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.DirectedEdgeCount())
}
