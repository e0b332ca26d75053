// Package graph provides the in-memory campus graph for campusnav.
//
// CampusGraph is a lightweight, map-backed store of nodes and per-node
// outgoing edge lists. Route queries, statistics, and neighbor lookups
// may run concurrently; structural mutations (adding nodes or edges,
// blocking or reopening paths) are serialized behind a single writer
// lock so no reader can observe a half-updated bidirectional pair.
package graph

import (
	"math"
	"sync"
	"time"
)

// Neighbor is one outgoing adjacency entry: the neighboring node's ID and
// a snapshot of the connecting edge.
type Neighbor struct {
	NodeID string
	Edge   Edge
}

// Statistics summarizes the size and state of the graph.
type Statistics struct {
	// TotalNodes is the number of nodes.
	TotalNodes int `json:"total_nodes"`

	// TotalEdges counts each bidirectional pair once (directed count / 2).
	TotalEdges int `json:"total_edges"`

	// TotalDistanceKM is the network length in kilometers, counting each
	// bidirectional pair once.
	TotalDistanceKM float64 `json:"total_distance_km"`

	// BlockedPaths is the number of currently blocked directed edges.
	BlockedPaths int `json:"blocked_paths"`

	// Buildings is the number of distinct named buildings.
	Buildings int `json:"buildings"`
}

// CampusGraph is the shared mutable graph of campus locations and paths.
//
// Nodes are keyed by ID. Each node with at least one adjacent edge has an
// adjacency entry, even if the list is empty. Adding a bidirectional edge
// stores two directed records, one per direction.
type CampusGraph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	adj   map[string][]*Edge

	// Metadata is carried through serialization untouched; campus_name,
	// last_updated and contributors are the conventional keys.
	metadata map[string]any
}

// NewCampusGraph creates a new empty campus graph.
func NewCampusGraph() *CampusGraph {
	return &CampusGraph{
		nodes:    make(map[string]*Node),
		adj:      make(map[string][]*Edge),
		metadata: make(map[string]any),
	}
}

// NodeCount returns the number of nodes.
func (g *CampusGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// DirectedEdgeCount returns the number of stored directed edge records.
func (g *CampusGraph) DirectedEdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n
}

// AddNode inserts a node, replacing any existing node with the same ID,
// and ensures an adjacency entry exists for it.
func (g *CampusGraph) AddNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[node.ID] = node
	if _, ok := g.adj[node.ID]; !ok {
		g.adj[node.ID] = nil
	}
}

// Node returns a snapshot of the node with the given ID.
func (g *CampusGraph) Node(id string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether a node with the given ID exists.
func (g *CampusGraph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns snapshots of all nodes.
func (g *CampusGraph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	return out
}

// AddEdge appends the directed edge to its source adjacency list. If the
// edge is bidirectional, the mirrored reverse record is appended to the
// target's list. No de-duplication is performed; adding the same edge
// twice produces parallel edges.
func (g *CampusGraph) AddEdge(edge *Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.adj[edge.FromNode] = append(g.adj[edge.FromNode], edge)

	if edge.IsBidirectional {
		g.adj[edge.ToNode] = append(g.adj[edge.ToNode], edge.Reverse())
	}
}

// Neighbors returns all (neighbor, edge) pairs reachable from the node.
// When accessibleOnly is true, blocked edges are excluded. An unknown
// node ID yields an empty result, not an error: a node the graph has
// never seen simply has no neighbors.
func (g *CampusGraph) Neighbors(nodeID string, accessibleOnly bool) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges, ok := g.adj[nodeID]
	if !ok {
		return nil
	}

	out := make([]Neighbor, 0, len(edges))
	for _, e := range edges {
		if accessibleOnly && !e.IsAccessible {
			continue
		}
		out = append(out, Neighbor{NodeID: e.ToNode, Edge: *e})
	}
	return out
}

// MarkPathBlocked marks every directed edge from->to as blocked with the
// given reason and advisory reopening time, and keeps the reverse
// direction consistent by blocking any to->from records as well.
// It returns whether at least one forward edge was updated.
func (g *CampusGraph) MarkPathBlocked(from, to, reason string, until *time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	updated := false
	for _, e := range g.adj[from] {
		if e.ToNode == to {
			e.IsAccessible = false
			e.BlockedReason = reason
			e.BlockedUntil = until
			updated = true
		}
	}

	for _, e := range g.adj[to] {
		if e.ToNode == from {
			e.IsAccessible = false
			e.BlockedReason = reason
			e.BlockedUntil = until
		}
	}

	return updated
}

// MarkPathAccessible clears the blocked state on every directed edge
// from->to and on the reverse direction. Calling it on an already
// accessible path is a no-op that still reports success.
func (g *CampusGraph) MarkPathAccessible(from, to string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	updated := false
	for _, e := range g.adj[from] {
		if e.ToNode == to {
			e.IsAccessible = true
			e.BlockedReason = ""
			e.BlockedUntil = nil
			updated = true
		}
	}

	for _, e := range g.adj[to] {
		if e.ToNode == from {
			e.IsAccessible = true
			e.BlockedReason = ""
			e.BlockedUntil = nil
		}
	}

	return updated
}

// BlockedEdges returns snapshots of all currently blocked directed edges.
func (g *CampusGraph) BlockedEdges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for _, edges := range g.adj {
		for _, e := range edges {
			if !e.IsAccessible {
				out = append(out, *e)
			}
		}
	}
	return out
}

// Statistics computes aggregate figures for the graph. Edge and distance
// totals divide the directed counts by two, which is exact when every
// path is either bidirectional or part of a symmetric one-way pair.
func (g *CampusGraph) Statistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	directed := 0
	totalDistance := 0.0
	blocked := 0
	buildings := make(map[string]struct{})

	for _, edges := range g.adj {
		directed += len(edges)
		for _, e := range edges {
			totalDistance += e.Distance
			if !e.IsAccessible {
				blocked++
			}
		}
	}

	for _, n := range g.nodes {
		if n.Building != "" {
			buildings[n.Building] = struct{}{}
		}
	}

	return Statistics{
		TotalNodes:      len(g.nodes),
		TotalEdges:      directed / 2,
		TotalDistanceKM: math.Round(totalDistance/1000*100) / 100,
		BlockedPaths:    blocked,
		Buildings:       len(buildings),
	}
}

// Metadata returns a copy of the document metadata.
func (g *CampusGraph) Metadata() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]any, len(g.metadata))
	for k, v := range g.metadata {
		out[k] = v
	}
	return out
}

// SetMetadata replaces the document metadata.
func (g *CampusGraph) SetMetadata(md map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.metadata = make(map[string]any, len(md))
	for k, v := range md {
		g.metadata[k] = v
	}
}

// Replace swaps this graph's contents for those of other. Used for hot
// reloads so that long-lived holders of the graph see the new campus
// without re-plumbing references.
func (g *CampusGraph) Replace(other *CampusGraph) {
	other.mu.RLock()
	nodes := other.nodes
	adj := other.adj
	metadata := other.metadata
	other.mu.RUnlock()

	g.mu.Lock()
	g.nodes = nodes
	g.adj = adj
	g.metadata = metadata
	g.mu.Unlock()
}

// Edges returns snapshots of every directed edge record. Intended for
// serialization and export.
func (g *CampusGraph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for _, edges := range g.adj {
		for _, e := range edges {
			out = append(out, *e)
		}
	}
	return out
}
