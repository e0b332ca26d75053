// Package graph provides the campus graph data model for campusnav.
//
// It defines the node and edge types that represent campus locations
// (building entrances, intersections, indoor landmarks) and the walkable
// paths between them, including the accessibility attributes that the
// routing engine scores against.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// SurfaceType represents the surface material of a path.
type SurfaceType string

const (
	SurfaceSmoothPavement SurfaceType = "smooth_pavement"
	SurfaceRoughPavement  SurfaceType = "rough_pavement"
	SurfaceBrick          SurfaceType = "brick"
	SurfaceGravel         SurfaceType = "gravel"
	SurfaceGrass          SurfaceType = "grass"
	SurfaceIndoorTile     SurfaceType = "indoor_tile"
	SurfaceIndoorCarpet   SurfaceType = "indoor_carpet"
)

// surfaceTypes is the closed set of valid surface tags.
var surfaceTypes = map[SurfaceType]bool{
	SurfaceSmoothPavement: true,
	SurfaceRoughPavement:  true,
	SurfaceBrick:          true,
	SurfaceGravel:         true,
	SurfaceGrass:          true,
	SurfaceIndoorTile:     true,
	SurfaceIndoorCarpet:   true,
}

// ParseSurfaceType validates a surface tag read from persisted data.
func ParseSurfaceType(s string) (SurfaceType, error) {
	st := SurfaceType(s)
	if !surfaceTypes[st] {
		return "", fmt.Errorf("unknown surface type %q", s)
	}
	return st, nil
}

// Feature represents an accessibility feature attached to a node or edge.
type Feature string

const (
	FeatureRamp               Feature = "ramp"
	FeatureElevator           Feature = "elevator"
	FeatureAutomaticDoor      Feature = "automatic_door"
	FeatureCurbCut            Feature = "curb_cut"
	FeatureRestArea           Feature = "rest_area"
	FeatureAccessibleBathroom Feature = "accessible_bathroom"
	FeatureSheltered          Feature = "sheltered"
	FeatureWellLit            Feature = "well_lit"
	FeatureHandrails          Feature = "handrails"
)

// featureTags is the closed set of valid feature tags.
var featureTags = map[Feature]bool{
	FeatureRamp:               true,
	FeatureElevator:           true,
	FeatureAutomaticDoor:      true,
	FeatureCurbCut:            true,
	FeatureRestArea:           true,
	FeatureAccessibleBathroom: true,
	FeatureSheltered:          true,
	FeatureWellLit:            true,
	FeatureHandrails:          true,
}

// ParseFeature validates a feature tag read from persisted data.
func ParseFeature(s string) (Feature, error) {
	f := Feature(s)
	if !featureTags[f] {
		return "", fmt.Errorf("unknown accessibility feature %q", s)
	}
	return f, nil
}

// FeatureSet is an unordered, duplicate-free collection of features.
type FeatureSet map[Feature]struct{}

// NewFeatureSet builds a set from the given features.
func NewFeatureSet(ff ...Feature) FeatureSet {
	s := make(FeatureSet, len(ff))
	for _, f := range ff {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the feature.
func (s FeatureSet) Has(f Feature) bool {
	_, ok := s[f]
	return ok
}

// List returns the features in sorted order for stable output.
func (s FeatureSet) List() []Feature {
	out := make([]Feature, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted tag array.
func (s FeatureSet) MarshalJSON() ([]byte, error) {
	tags := make([]string, 0, len(s))
	for _, f := range s.List() {
		tags = append(tags, string(f))
	}
	return json.Marshal(tags)
}

// UnmarshalJSON decodes a tag array, rejecting unknown tags.
func (s *FeatureSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	set := make(FeatureSet, len(tags))
	for _, tag := range tags {
		f, err := ParseFeature(tag)
		if err != nil {
			return err
		}
		set[f] = struct{}{}
	}
	*s = set
	return nil
}

// Clone returns an independent copy of the set.
func (s FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}

// Node represents a campus location: a building entrance, an outdoor
// intersection, or an indoor landmark.
type Node struct {
	// ID is the unique, stable identifier for the location.
	ID string

	// Name is the human-readable display name.
	Name string

	// Latitude and Longitude are the geographic position in degrees.
	Latitude  float64
	Longitude float64

	// Building is the building name, empty for outdoor locations.
	Building string

	// Floor is the floor number; 0 is ground level.
	Floor int

	// Features holds the accessibility features available at the location.
	Features FeatureSet

	// IsIndoor indicates whether the location is inside a building.
	IsIndoor bool

	// Notes holds free-text accessibility notes.
	Notes string
}

// Edge represents a directed walkable path between two nodes.
//
// A bidirectional logical path is stored as two directed records; the
// reverse record carries a negated slope and otherwise identical
// attributes. The blocking operations keep both directions in sync.
type Edge struct {
	// FromNode and ToNode reference Node IDs.
	FromNode string
	ToNode   string

	// Distance is the path length in meters.
	Distance float64

	// Slope is the signed percentage grade in the stored direction;
	// positive means ascending from FromNode to ToNode.
	Slope float64

	// Surface is the path surface material.
	Surface SurfaceType

	// Width is the usable path width in meters.
	Width float64

	// IsBidirectional indicates the path can be walked in both directions.
	IsBidirectional bool

	// IsSheltered indicates the path is covered from weather.
	IsSheltered bool

	// Features holds the accessibility features along the path.
	Features FeatureSet

	// IsAccessible is the live accessibility state; false while blocked.
	IsAccessible bool

	// BlockedReason describes why the path is blocked, empty otherwise.
	BlockedReason string

	// BlockedUntil is an advisory reopening time. It is recorded and
	// persisted but never enforced; clearing a block is always explicit.
	BlockedUntil *time.Time
}

// Reverse returns the mirrored directed record for the opposite direction:
// endpoints swapped, slope negated, all other attributes copied.
func (e *Edge) Reverse() *Edge {
	return &Edge{
		FromNode:        e.ToNode,
		ToNode:          e.FromNode,
		Distance:        e.Distance,
		Slope:           -e.Slope,
		Surface:         e.Surface,
		Width:           e.Width,
		IsBidirectional: e.IsBidirectional,
		IsSheltered:     e.IsSheltered,
		Features:        e.Features.Clone(),
		IsAccessible:    e.IsAccessible,
		BlockedReason:   e.BlockedReason,
		BlockedUntil:    e.BlockedUntil,
	}
}
