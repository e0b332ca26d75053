package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// nodeRecord is the persisted form of a Node.
type nodeRecord struct {
	ID        *string  `json:"id"`
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Building  *string  `json:"building"`
	Floor     int      `json:"floor"`
	Features  []string `json:"features"`
	IsIndoor  bool     `json:"is_indoor"`
	Notes     string   `json:"notes"`
}

// edgeRecord is the persisted form of a directed Edge. Bidirectional
// pairs are stored as a single record and re-expanded on load.
type edgeRecord struct {
	FromNode        *string  `json:"from_node"`
	ToNode          *string  `json:"to_node"`
	Distance        *float64 `json:"distance"`
	Slope           float64  `json:"slope"`
	Surface         string   `json:"surface"`
	Width           *float64 `json:"width"`
	IsBidirectional *bool    `json:"is_bidirectional"`
	IsSheltered     bool     `json:"is_sheltered"`
	Features        []string `json:"features"`
	IsAccessible    *bool    `json:"is_accessible"`
	BlockedReason   *string  `json:"blocked_reason"`
	BlockedUntil    *string  `json:"blocked_until"`
}

// document is the canonical persisted graph form.
type document struct {
	Metadata map[string]any `json:"metadata"`
	Nodes    []nodeRecord   `json:"nodes"`
	Edges    []edgeRecord   `json:"edges"`
}

// timestampLayouts accepts RFC 3339 plus offset-less ISO-8601, which
// older campus exports carry.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed timestamp %q", s)
}

func parseFeatureList(tags []string) (FeatureSet, error) {
	set := make(FeatureSet, len(tags))
	for _, tag := range tags {
		f, err := ParseFeature(tag)
		if err != nil {
			return nil, err
		}
		set[f] = struct{}{}
	}
	return set, nil
}

func (r nodeRecord) toNode() (*Node, error) {
	switch {
	case r.ID == nil:
		return nil, fmt.Errorf("node missing required field %q", "id")
	case r.Name == nil:
		return nil, fmt.Errorf("node %s missing required field %q", *r.ID, "name")
	case r.Latitude == nil:
		return nil, fmt.Errorf("node %s missing required field %q", *r.ID, "latitude")
	case r.Longitude == nil:
		return nil, fmt.Errorf("node %s missing required field %q", *r.ID, "longitude")
	}

	feats, err := parseFeatureList(r.Features)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", *r.ID, err)
	}

	node := &Node{
		ID:        *r.ID,
		Name:      *r.Name,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Floor:     r.Floor,
		Features:  feats,
		IsIndoor:  r.IsIndoor,
		Notes:     r.Notes,
	}
	if r.Building != nil {
		node.Building = *r.Building
	}
	return node, nil
}

func (r edgeRecord) toEdge() (*Edge, error) {
	switch {
	case r.FromNode == nil:
		return nil, fmt.Errorf("edge missing required field %q", "from_node")
	case r.ToNode == nil:
		return nil, fmt.Errorf("edge missing required field %q", "to_node")
	case r.Distance == nil:
		return nil, fmt.Errorf("edge %s->%s missing required field %q", *r.FromNode, *r.ToNode, "distance")
	}

	edge := &Edge{
		FromNode:        *r.FromNode,
		ToNode:          *r.ToNode,
		Distance:        *r.Distance,
		Slope:           r.Slope,
		Surface:         SurfaceSmoothPavement,
		Width:           2.0,
		IsBidirectional: true,
		IsSheltered:     r.IsSheltered,
		IsAccessible:    true,
	}

	if r.Surface != "" {
		surface, err := ParseSurfaceType(r.Surface)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", edge.FromNode, edge.ToNode, err)
		}
		edge.Surface = surface
	}
	if r.Width != nil {
		edge.Width = *r.Width
	}
	if r.IsBidirectional != nil {
		edge.IsBidirectional = *r.IsBidirectional
	}
	if r.IsAccessible != nil {
		edge.IsAccessible = *r.IsAccessible
	}
	if r.BlockedReason != nil {
		edge.BlockedReason = *r.BlockedReason
	}
	if r.BlockedUntil != nil {
		t, err := parseTimestamp(*r.BlockedUntil)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", edge.FromNode, edge.ToNode, err)
		}
		edge.BlockedUntil = &t
	}

	feats, err := parseFeatureList(r.Features)
	if err != nil {
		return nil, fmt.Errorf("edge %s->%s: %w", edge.FromNode, edge.ToNode, err)
	}
	edge.Features = feats

	return edge, nil
}

func nodeToRecord(n Node) nodeRecord {
	rec := nodeRecord{
		ID:        &n.ID,
		Name:      &n.Name,
		Latitude:  &n.Latitude,
		Longitude: &n.Longitude,
		Floor:     n.Floor,
		Features:  featureTagsOf(n.Features),
		IsIndoor:  n.IsIndoor,
		Notes:     n.Notes,
	}
	if n.Building != "" {
		building := n.Building
		rec.Building = &building
	}
	return rec
}

func edgeToRecord(e Edge) edgeRecord {
	rec := edgeRecord{
		FromNode:        &e.FromNode,
		ToNode:          &e.ToNode,
		Distance:        &e.Distance,
		Slope:           e.Slope,
		Surface:         string(e.Surface),
		Width:           &e.Width,
		IsBidirectional: &e.IsBidirectional,
		IsSheltered:     e.IsSheltered,
		Features:        featureTagsOf(e.Features),
		IsAccessible:    &e.IsAccessible,
	}
	if e.BlockedReason != "" {
		reason := e.BlockedReason
		rec.BlockedReason = &reason
	}
	if e.BlockedUntil != nil {
		ts := e.BlockedUntil.Format(time.RFC3339)
		rec.BlockedUntil = &ts
	}
	return rec
}

func featureTagsOf(set FeatureSet) []string {
	list := set.List()
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = string(f)
	}
	return out
}

// CanonicalEdges returns the serializable edge set: every one-way edge
// plus exactly one directed record per bidirectional pair, selected by
// an unordered pair key. Output order is deterministic.
func CanonicalEdges(g *CampusGraph) []Edge {
	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].FromNode != edges[j].FromNode {
			return edges[i].FromNode < edges[j].FromNode
		}
		return edges[i].ToNode < edges[j].ToNode
	})

	out := make([]Edge, 0, len(edges)/2+1)
	seenPairs := make(map[string]bool)
	for _, e := range edges {
		key := pairKey(e.FromNode, e.ToNode)
		if !seenPairs[key] || !e.IsBidirectional {
			out = append(out, e)
			if e.IsBidirectional {
				seenPairs[key] = true
			}
		}
	}
	return out
}

// EncodeDocument serializes the graph into its canonical document form.
func EncodeDocument(g *CampusGraph) ([]byte, error) {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	canonical := CanonicalEdges(g)

	doc := document{
		Metadata: g.Metadata(),
		Nodes:    make([]nodeRecord, 0, len(nodes)),
		Edges:    make([]edgeRecord, 0, len(canonical)),
	}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, nodeToRecord(n))
	}
	for _, e := range canonical {
		doc.Edges = append(doc.Edges, edgeToRecord(e))
	}

	return json.MarshalIndent(doc, "", "  ")
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// DecodeDocument parses and validates a persisted graph document. Any
// unknown enum tag, missing required field, or malformed timestamp fails
// the whole load; no partial graph is ever returned.
func DecodeDocument(data []byte) (*CampusGraph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing campus document: %w", err)
	}

	g := NewCampusGraph()
	if doc.Metadata != nil {
		g.SetMetadata(doc.Metadata)
	}

	for _, rec := range doc.Nodes {
		node, err := rec.toNode()
		if err != nil {
			return nil, fmt.Errorf("invalid campus document: %w", err)
		}
		g.AddNode(node)
	}

	for _, rec := range doc.Edges {
		edge, err := rec.toEdge()
		if err != nil {
			return nil, fmt.Errorf("invalid campus document: %w", err)
		}
		g.AddEdge(edge)
	}

	return g, nil
}

// Load reads and decodes a campus document from disk.
func Load(path string) (*CampusGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return g, nil
}

// Save encodes the graph and writes it to disk.
func Save(g *CampusGraph, path string) error {
	data, err := EncodeDocument(g)
	if err != nil {
		return fmt.Errorf("encoding campus document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
