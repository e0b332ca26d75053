package campusdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uninav/campusnav/internal/graph"
)

func TestReloadDocument_SwapsGraph(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campus.json")
	require.NoError(t, graph.Save(BuildSampleCampus(), path))

	target := graph.NewCampusGraph()
	var notified *graph.CampusGraph
	err := reloadDocument(path, target, func(g *graph.CampusGraph) {
		notified = g
	})
	require.NoError(t, err)

	assert.Equal(t, 19, target.NodeCount())
	assert.Equal(t, 52, target.DirectedEdgeCount())
	assert.Same(t, target, notified)
}

func TestReloadDocument_KeepsGraphOnInvalidDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campus.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	target := BuildSampleCampus()
	err := reloadDocument(path, target, nil)
	require.Error(t, err)

	// The last good graph stays live.
	assert.Equal(t, 19, target.NodeCount())
}

func TestReloadDocument_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone.json")
	target := BuildSampleCampus()

	err := reloadDocument(path, target, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keeping previous graph")
	assert.Equal(t, 19, target.NodeCount())
}

func TestSameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched, err := filepath.Abs(filepath.Join(dir, "campus.json"))
	require.NoError(t, err)

	assert.True(t, sameFile(filepath.Join(dir, "campus.json"), watched))
	assert.False(t, sameFile(filepath.Join(dir, "other.json"), watched))
}
