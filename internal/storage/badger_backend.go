// Package storage provides the campus snapshot backends for campusnav.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/uninav/campusnav/internal/graph"
)

// Key prefixes for different data types
const (
	prefixNode     = "n:" // node data
	prefixEdge     = "e:" // canonical edge records
	prefixMetadata = "m:" // document metadata
)

const metadataKey = prefixMetadata + "doc"

// BadgerBackend is a BadgerDB-backed snapshot implementation.
type BadgerBackend struct {
	db          *badger.DB
	initialized bool
	mu          sync.RWMutex
	nodeCount   int
	edgeCount   int
	edgeSeq     uint64
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithNumMemtables(5).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	var err error
	b.db, err = badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}

	b.initialized = true
	b.recountFromDB()

	return nil
}

// recountFromDB rebuilds the in-memory counters from the database.
func (b *BadgerBackend) recountFromDB() {
	b.nodeCount = 0
	b.edgeCount = 0
	b.edgeSeq = 0

	txn := b.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixNode)
	it := txn.NewIterator(opts)
	for it.Rewind(); it.Valid(); it.Next() {
		b.nodeCount++
	}
	it.Close()

	opts.Prefix = []byte(prefixEdge)
	it = txn.NewIterator(opts)
	for it.Rewind(); it.Valid(); it.Next() {
		b.edgeCount++
		b.edgeSeq++
	}
	it.Close()
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.initialized = false
	return err
}

// BulkLoad replaces the entire snapshot with the contents of the graph.
func (b *BadgerBackend) BulkLoad(ctx context.Context, g *graph.CampusGraph) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.db.DropPrefix([]byte(prefixNode), []byte(prefixEdge), []byte(prefixMetadata)); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	b.nodeCount = 0
	b.edgeCount = 0
	b.edgeSeq = 0

	for _, node := range g.Nodes() {
		data, err := json.Marshal(node)
		if err != nil {
			return fmt.Errorf("marshaling node: %w", err)
		}
		if err := wb.Set(nodeKey(node.ID), data); err != nil {
			return fmt.Errorf("setting node: %w", err)
		}
		b.nodeCount++
	}

	for _, edge := range graph.CanonicalEdges(g) {
		data, err := json.Marshal(edge)
		if err != nil {
			return fmt.Errorf("marshaling edge: %w", err)
		}
		if err := wb.Set(edgeKey(b.edgeSeq), data); err != nil {
			return fmt.Errorf("setting edge: %w", err)
		}
		b.edgeSeq++
		b.edgeCount++
	}

	metadata, err := json.Marshal(g.Metadata())
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := wb.Set([]byte(metadataKey), metadata); err != nil {
		return fmt.Errorf("setting metadata: %w", err)
	}

	return wb.Flush()
}

// LoadGraph hydrates a campus graph from the snapshot. Bidirectional
// edge records are re-expanded into their mirrors by the graph itself.
func (b *BadgerBackend) LoadGraph(ctx context.Context) (*graph.CampusGraph, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	g := graph.NewCampusGraph()

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metadataKey))
		if err == nil {
			var metadata map[string]any
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &metadata)
			}); err != nil {
				return fmt.Errorf("unmarshaling metadata: %w", err)
			}
			g.SetMetadata(metadata)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixNode)
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			var node graph.Node
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &node)
			}); err != nil {
				it.Close()
				return fmt.Errorf("unmarshaling node: %w", err)
			}
			n := node
			g.AddNode(&n)
		}
		it.Close()

		opts.Prefix = []byte(prefixEdge)
		it = txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			var edge graph.Edge
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &edge)
			}); err != nil {
				it.Close()
				return fmt.Errorf("unmarshaling edge: %w", err)
			}
			e := edge
			g.AddEdge(&e)
		}
		it.Close()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// AddNodes inserts nodes into the snapshot.
func (b *BadgerBackend) AddNodes(ctx context.Context, nodes []*graph.Node) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	added := 0
	for _, node := range nodes {
		data, err := json.Marshal(node)
		if err != nil {
			return fmt.Errorf("marshaling node: %w", err)
		}
		if _, err := txn.Get(nodeKey(node.ID)); err == badger.ErrKeyNotFound {
			added++
		}
		if err := txn.Set(nodeKey(node.ID), data); err != nil {
			return fmt.Errorf("setting node: %w", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return err
	}
	b.nodeCount += added
	return nil
}

// AddEdges appends canonical edge records to the snapshot.
func (b *BadgerBackend) AddEdges(ctx context.Context, edges []*graph.Edge) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	seq := b.edgeSeq
	for _, edge := range edges {
		data, err := json.Marshal(edge)
		if err != nil {
			return fmt.Errorf("marshaling edge: %w", err)
		}
		if err := txn.Set(edgeKey(seq), data); err != nil {
			return fmt.Errorf("setting edge: %w", err)
		}
		seq++
	}

	if err := txn.Commit(); err != nil {
		return err
	}
	b.edgeCount += int(seq - b.edgeSeq)
	b.edgeSeq = seq
	return nil
}

// NodeCount returns the number of stored nodes.
func (b *BadgerBackend) NodeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nodeCount
}

// EdgeCount returns the number of stored canonical edge records.
func (b *BadgerBackend) EdgeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.edgeCount
}

func nodeKey(id string) []byte {
	return []byte(prefixNode + id)
}

func edgeKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%012d", prefixEdge, seq))
}
