// Package storage provides the campus snapshot backends for campusnav.
package storage

import (
	"context"
	"sync"

	"github.com/uninav/campusnav/internal/graph"
)

// MemoryBackend is an in-memory implementation of Backend for testing.
type MemoryBackend struct {
	mu          sync.RWMutex
	nodes       map[string]*graph.Node
	edges       []*graph.Edge
	metadata    map[string]any
	initialized bool
}

// NewMemoryBackend creates a new in-memory snapshot backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nodes: make(map[string]*graph.Node),
	}
}

// Initialize implements Backend.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = nil
	m.edges = nil
	m.metadata = nil
	m.initialized = false
	return nil
}

// BulkLoad implements Backend.
func (m *MemoryBackend) BulkLoad(ctx context.Context, g *graph.CampusGraph) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes = make(map[string]*graph.Node)
	for _, n := range g.Nodes() {
		node := n
		m.nodes[node.ID] = &node
	}

	m.edges = nil
	for _, e := range graph.CanonicalEdges(g) {
		edge := e
		m.edges = append(m.edges, &edge)
	}

	m.metadata = g.Metadata()
	return nil
}

// LoadGraph implements Backend.
func (m *MemoryBackend) LoadGraph(ctx context.Context) (*graph.CampusGraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g := graph.NewCampusGraph()
	g.SetMetadata(m.metadata)
	for _, node := range m.nodes {
		n := *node
		g.AddNode(&n)
	}
	for _, edge := range m.edges {
		e := *edge
		g.AddEdge(&e)
	}
	return g, nil
}

// AddNodes implements Backend.
func (m *MemoryBackend) AddNodes(ctx context.Context, nodes []*graph.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, node := range nodes {
		m.nodes[node.ID] = node
	}
	return nil
}

// AddEdges implements Backend.
func (m *MemoryBackend) AddEdges(ctx context.Context, edges []*graph.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.edges = append(m.edges, edges...)
	return nil
}

// NodeCount implements Backend.
func (m *MemoryBackend) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// EdgeCount implements Backend.
func (m *MemoryBackend) EdgeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.edges)
}

// IsInitialized reports whether Initialize has been called.
func (m *MemoryBackend) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}
