// Package storage provides the campus snapshot backends for campusnav.
//
// It defines the Backend protocol that snapshot implementations must
// satisfy. A snapshot persists the canonical form of a campus graph
// (nodes, one edge record per bidirectional pair, document metadata) so
// query commands can hydrate the in-memory graph without re-validating
// the source document.
package storage

import (
	"context"

	"github.com/uninav/campusnav/internal/graph"
)

// Backend defines the interface for snapshot implementations.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// Initialize opens or creates the snapshot at the given path.
	// If readOnly is true, the snapshot is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// BulkLoad replaces the entire snapshot with the contents of the graph.
	BulkLoad(ctx context.Context, g *graph.CampusGraph) error

	// LoadGraph hydrates a campus graph from the snapshot.
	LoadGraph(ctx context.Context) (*graph.CampusGraph, error)

	// AddNodes inserts nodes into the snapshot.
	AddNodes(ctx context.Context, nodes []*graph.Node) error

	// AddEdges appends canonical edge records to the snapshot. Each
	// record is re-expanded into its mirror on load when bidirectional.
	AddEdges(ctx context.Context, edges []*graph.Edge) error

	// NodeCount returns the number of stored nodes.
	NodeCount() int

	// EdgeCount returns the number of stored canonical edge records.
	EdgeCount() int
}
