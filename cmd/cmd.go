// Package cmd provides CLI command implementations for campusnav.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/uninav/campusnav/internal/campusdata"
	"github.com/uninav/campusnav/internal/graph"
	"github.com/uninav/campusnav/internal/routing"
	"github.com/uninav/campusnav/internal/storage"
	"github.com/uninav/campusnav/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

const dataDirName = ".campusnav"

// SampleCmd loads the bundled demo campus into the local snapshot.
type SampleCmd struct{}

// Run executes the sample command.
func (c *SampleCmd) Run() error {
	ctx := context.Background()

	g := campusdata.BuildSampleCampus()

	store, err := openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.BulkLoad(ctx, g); err != nil {
		return fmt.Errorf("storing campus: %w", err)
	}

	if err := writeMeta("", g); err != nil {
		return err
	}

	stats := g.Statistics()
	color.Green("✓ Loaded demo campus")
	fmt.Printf("  Locations:      %d\n", stats.TotalNodes)
	fmt.Printf("  Paths:          %d\n", stats.TotalEdges)
	fmt.Printf("  Network length: %.2f km\n", stats.TotalDistanceKM)
	fmt.Printf("  Blocked paths:  %d\n", stats.BlockedPaths)

	return nil
}

// ImportCmd loads a campus document into the local snapshot.
type ImportCmd struct {
	File string `arg:"" help:"Path to campus JSON document"`
}

// Run executes the import command.
func (c *ImportCmd) Run() error {
	ctx := context.Background()

	docPath, err := filepath.Abs(c.File)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	g, err := graph.Load(docPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", docPath, err)
	}

	store, err := openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.BulkLoad(ctx, g); err != nil {
		return fmt.Errorf("storing campus: %w", err)
	}

	if err := writeMeta(docPath, g); err != nil {
		return err
	}

	stats := g.Statistics()
	color.Green("✓ Imported %s", docPath)
	fmt.Printf("  Locations:      %d\n", stats.TotalNodes)
	fmt.Printf("  Paths:          %d\n", stats.TotalEdges)
	fmt.Printf("  Network length: %.2f km\n", stats.TotalDistanceKM)

	return nil
}

// StatusCmd shows snapshot status for the current directory.
type StatusCmd struct{}

// Run executes the status command.
func (c *StatusCmd) Run() error {
	dir, err := dataDir()
	if err != nil {
		return err
	}

	metaBytes, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no campus snapshot found. Run 'campusnav sample' or 'campusnav import' first")
		}
		return fmt.Errorf("reading meta.json: %w", err)
	}

	var meta map[string]any
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return fmt.Errorf("parsing meta.json: %w", err)
	}

	fmt.Printf("Campus snapshot in %s\n", dir)
	if version, ok := meta["version"].(string); ok {
		fmt.Printf("  Version:      %s\n", version)
	}
	if source, ok := meta["source"].(string); ok && source != "" {
		fmt.Printf("  Source:       %s\n", source)
	}
	if importedAt, ok := meta["imported_at"].(string); ok {
		fmt.Printf("  Imported:     %s\n", importedAt)
	}
	if stats, ok := meta["stats"].(map[string]any); ok {
		if nodes, ok := stats["total_nodes"].(float64); ok {
			fmt.Printf("  Locations:    %.0f\n", nodes)
		}
		if paths, ok := stats["total_edges"].(float64); ok {
			fmt.Printf("  Paths:        %.0f\n", paths)
		}
		if blocked, ok := stats["blocked_paths"].(float64); ok {
			fmt.Printf("  Blocked:      %.0f\n", blocked)
		}
	}

	return nil
}

// RouteCmd finds an accessible route between two locations.
type RouteCmd struct {
	Start      string  `arg:"" help:"Start node ID"`
	End        string  `arg:"" help:"End node ID"`
	Preference string  `short:"p" default:"balanced" help:"Routing preference (shortest|flattest|most_sheltered|with_rest_stops|balanced)"`
	MaxSlope   float64 `default:"8.0" help:"Maximum tolerable slope percentage"`
	MinWidth   float64 `default:"1.2" help:"Minimum path width in meters"`
	JSON       bool    `help:"Output route as JSON"`
	GeoJSON    bool    `help:"Output route as GeoJSON"`
}

// Run executes the route command.
func (c *RouteCmd) Run() error {
	g, err := loadCampus()
	if err != nil {
		return err
	}

	pref, err := routing.ParsePreference(c.Preference)
	if err != nil {
		return err
	}

	router := routing.NewRouter(g)
	route, err := router.FindRoute(c.Start, c.End, pref, c.MaxSlope, c.MinWidth)
	if errors.Is(err, routing.ErrNoRoute) {
		color.Yellow("No accessible route found from %s to %s", c.Start, c.End)
		return nil
	}
	if err != nil {
		return err
	}

	if c.JSON {
		out, err := json.MarshalIndent(route.Export(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if c.GeoJSON {
		fc := routing.RouteFeatureCollection(route)
		out, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	color.Green("Route from %s to %s (%s)", c.Start, c.End, pref)
	fmt.Println()
	for _, line := range route.Directions() {
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Printf("Accessibility score: %.0f/100\n", route.AccessibilityScore)
	fmt.Printf("Sheltered:           %.0f%%\n", route.ShelteredPercentage)

	return nil
}

// AlternativesCmd finds alternative routes between two locations.
type AlternativesCmd struct {
	Start string `arg:"" help:"Start node ID"`
	End   string `arg:"" help:"End node ID"`
	Count int    `short:"n" default:"3" help:"Maximum number of alternatives"`
}

// Run executes the alternatives command.
func (c *AlternativesCmd) Run() error {
	g, err := loadCampus()
	if err != nil {
		return err
	}

	router := routing.NewRouter(g)
	alternatives := router.FindAlternativeRoutes(c.Start, c.End, c.Count)
	if len(alternatives) == 0 {
		color.Yellow("No accessible routes found from %s to %s", c.Start, c.End)
		return nil
	}

	fmt.Printf("Found %d alternative route(s) from %s to %s:\n\n", len(alternatives), c.Start, c.End)
	for i, alt := range alternatives {
		fmt.Printf("%d. %s\n", i+1, alt.Preference)
		fmt.Printf("   Distance:  %.0fm (~%.0f min)\n", alt.Route.TotalDistance, alt.Route.EstimatedTimeMinutes)
		fmt.Printf("   Score:     %.0f/100\n", alt.Route.AccessibilityScore)
		fmt.Printf("   Sheltered: %.0f%%\n", alt.Route.ShelteredPercentage)
		fmt.Println()
	}

	return nil
}

// BlockCmd marks a path as blocked in both directions.
type BlockCmd struct {
	From   string `arg:"" help:"From node ID"`
	To     string `arg:"" help:"To node ID"`
	Reason string `arg:"" help:"Why the path is blocked"`
	Until  string `help:"Expected reopening time (RFC 3339), advisory only"`
}

// Run executes the block command.
func (c *BlockCmd) Run() error {
	var until *time.Time
	if c.Until != "" {
		t, err := time.Parse(time.RFC3339, c.Until)
		if err != nil {
			return fmt.Errorf("invalid --until %q: expected RFC 3339", c.Until)
		}
		until = &t
	}

	return updateCampus(func(g *graph.CampusGraph) error {
		if !g.MarkPathBlocked(c.From, c.To, c.Reason, until) {
			return fmt.Errorf("no path found between %s and %s", c.From, c.To)
		}
		color.Yellow("Blocked path between %s and %s: %s", c.From, c.To, c.Reason)
		return nil
	})
}

// UnblockCmd restores a blocked path to accessible.
type UnblockCmd struct {
	From string `arg:"" help:"From node ID"`
	To   string `arg:"" help:"To node ID"`
}

// Run executes the unblock command.
func (c *UnblockCmd) Run() error {
	return updateCampus(func(g *graph.CampusGraph) error {
		if !g.MarkPathAccessible(c.From, c.To) {
			return fmt.Errorf("no path found between %s and %s", c.From, c.To)
		}
		color.Green("Restored path between %s and %s", c.From, c.To)
		return nil
	})
}

// AddNodeCmd adds a location to the campus.
type AddNodeCmd struct {
	ID        string   `arg:"" help:"Node ID"`
	Name      string   `arg:"" help:"Human-readable name"`
	Latitude  float64  `arg:"" help:"Latitude in decimal degrees"`
	Longitude float64  `arg:"" help:"Longitude in decimal degrees"`
	Building  string   `help:"Building name"`
	Floor     int      `help:"Floor number"`
	Features  []string `help:"Accessibility features (comma-separated)"`
	Indoor    bool     `help:"Node is indoors"`
	Notes     string   `help:"Free-form notes"`
}

// Run executes the add-node command.
func (c *AddNodeCmd) Run() error {
	ctx := context.Background()

	features, err := parseFeatures(c.Features)
	if err != nil {
		return err
	}

	node := &graph.Node{
		ID:        c.ID,
		Name:      c.Name,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Building:  c.Building,
		Floor:     c.Floor,
		Features:  features,
		IsIndoor:  c.Indoor,
		Notes:     c.Notes,
	}

	store, err := openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.AddNodes(ctx, []*graph.Node{node}); err != nil {
		return fmt.Errorf("adding node: %w", err)
	}

	color.Green("✓ Added node %s", c.ID)
	return nil
}

// AddEdgeCmd adds a path between two locations.
type AddEdgeCmd struct {
	From      string   `arg:"" help:"From node ID"`
	To        string   `arg:"" help:"To node ID"`
	Distance  float64  `arg:"" help:"Path length in meters"`
	Slope     float64  `help:"Grade percentage (positive uphill from->to)"`
	Surface   string   `default:"smooth_pavement" help:"Surface type"`
	Width     float64  `default:"2.0" help:"Path width in meters"`
	OneWay    bool     `help:"Path is traversable in one direction only"`
	Sheltered bool     `help:"Path is covered"`
	Features  []string `help:"Path features (comma-separated)"`
}

// Run executes the add-edge command.
func (c *AddEdgeCmd) Run() error {
	ctx := context.Background()

	surface, err := graph.ParseSurfaceType(c.Surface)
	if err != nil {
		return err
	}

	features, err := parseFeatures(c.Features)
	if err != nil {
		return err
	}

	edge := &graph.Edge{
		FromNode:        c.From,
		ToNode:          c.To,
		Distance:        c.Distance,
		Slope:           c.Slope,
		Surface:         surface,
		Width:           c.Width,
		IsBidirectional: !c.OneWay,
		IsSheltered:     c.Sheltered,
		Features:        features,
		IsAccessible:    true,
	}

	store, err := openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.AddEdges(ctx, []*graph.Edge{edge}); err != nil {
		return fmt.Errorf("adding edge: %w", err)
	}

	color.Green("✓ Added path %s -> %s (%.0fm)", c.From, c.To, c.Distance)
	return nil
}

// NodesCmd lists campus locations.
type NodesCmd struct {
	Building string `help:"Only list nodes in this building"`
}

// Run executes the nodes command.
func (c *NodesCmd) Run() error {
	g, err := loadCampus()
	if err != nil {
		return err
	}

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	listed := 0
	for _, n := range nodes {
		if c.Building != "" && !strings.EqualFold(n.Building, c.Building) {
			continue
		}
		listed++
		fmt.Printf("%s: %s\n", color.CyanString(n.ID), n.Name)
		if n.Building != "" {
			fmt.Printf("  Building: %s", n.Building)
			if n.Floor != 0 {
				fmt.Printf(" (floor %d)", n.Floor)
			}
			fmt.Println()
		}
		if features := n.Features.List(); len(features) > 0 {
			labels := make([]string, len(features))
			for i, f := range features {
				labels[i] = string(f)
			}
			fmt.Printf("  Features: %s\n", strings.Join(labels, ", "))
		}
	}

	if listed == 0 {
		if c.Building != "" {
			fmt.Printf("No locations found in building %q\n", c.Building)
		} else {
			fmt.Println("No locations in the campus graph")
		}
		return nil
	}

	fmt.Printf("\n%d location(s)\n", listed)
	return nil
}

// ExportCmd writes the campus graph to a file.
type ExportCmd struct {
	Out    string `arg:"" help:"Output file path"`
	Format string `default:"json" enum:"json,geojson" help:"Output format (json|geojson)"`
}

// Run executes the export command.
func (c *ExportCmd) Run() error {
	g, err := loadCampus()
	if err != nil {
		return err
	}

	switch c.Format {
	case "geojson":
		fc := routing.GraphFeatureCollection(g)
		out, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Out, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", c.Out, err)
		}
	default:
		if err := graph.Save(g, c.Out); err != nil {
			return fmt.Errorf("writing %s: %w", c.Out, err)
		}
	}

	color.Green("✓ Exported campus to %s (%s)", c.Out, c.Format)
	return nil
}

// StatsCmd shows campus network statistics.
type StatsCmd struct{}

// Run executes the stats command.
func (c *StatsCmd) Run() error {
	g, err := loadCampus()
	if err != nil {
		return err
	}

	stats := g.Statistics()
	fmt.Println("Campus network statistics")
	fmt.Printf("  Locations:      %d\n", stats.TotalNodes)
	fmt.Printf("  Paths:          %d\n", stats.TotalEdges)
	fmt.Printf("  Network length: %.2f km\n", stats.TotalDistanceKM)
	fmt.Printf("  Blocked paths:  %d\n", stats.BlockedPaths)
	fmt.Printf("  Buildings:      %d\n", stats.Buildings)

	blocked := g.BlockedEdges()
	if len(blocked) > 0 {
		fmt.Println("\nBlocked paths:")
		seen := make(map[string]bool)
		for _, e := range blocked {
			key := pairLabel(e.FromNode, e.ToNode)
			if seen[key] {
				continue
			}
			seen[key] = true
			line := fmt.Sprintf("  %s <-> %s: %s", e.FromNode, e.ToNode, e.BlockedReason)
			if e.BlockedUntil != nil {
				line += fmt.Sprintf(" (until %s)", e.BlockedUntil.Format(time.RFC3339))
			}
			color.Yellow("%s", line)
		}
	}

	return nil
}

// ServeCmd starts the MCP server with optional document watching.
type ServeCmd struct {
	Watch bool `short:"w" help:"Reload the campus when the source document changes"`
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	ctx := context.Background()

	g, err := loadCampus()
	if err != nil {
		return err
	}

	server := mcp.NewServer(g)

	if c.Watch {
		source, err := sourceDocument()
		if err != nil {
			return err
		}
		if source == "" {
			return fmt.Errorf("no source document recorded. Watch mode requires 'campusnav import <file>'")
		}

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			<-osSignalChannel()
			cancel()
		}()

		go func() {
			err := campusdata.WatchDocument(watchCtx, source, g, nil)
			if err != nil && err != context.Canceled {
				fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "Starting MCP server, watching %s\n", source)
	} else {
		fmt.Fprintln(os.Stderr, "Starting MCP server...")
	}

	return server.Run(ctx, os.Stdin, os.Stdout)
}

// CleanCmd deletes the campus snapshot for the current directory.
type CleanCmd struct {
	Force bool `short:"f" help:"Skip confirmation"`
}

// Run executes the clean command.
func (c *CleanCmd) Run() error {
	dir, err := dataDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("no campus snapshot found. Nothing to clean")
	}

	if !c.Force {
		fmt.Printf("Delete snapshot at %s? [y/N] ", dir)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}

	color.Green("Deleted %s", dir)
	return nil
}

// Helper functions

func dataDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return filepath.Join(cwd, dataDirName), nil
}

// openStorage opens the badger snapshot, creating the data directory
// when opening for writes.
func openStorage(readOnly bool) (*storage.BadgerBackend, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "badger")
	if readOnly {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no campus snapshot found. Run 'campusnav sample' or 'campusnav import' first")
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, readOnly); err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	return store, nil
}

// loadCampus reads the full graph out of the snapshot.
func loadCampus() (*graph.CampusGraph, error) {
	store, err := openStorage(true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	g, err := store.LoadGraph(context.Background())
	if err != nil {
		return nil, fmt.Errorf("loading campus: %w", err)
	}
	return g, nil
}

// updateCampus loads the graph, applies fn, and persists the result.
func updateCampus(fn func(*graph.CampusGraph) error) error {
	ctx := context.Background()

	store, err := openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	g, err := store.LoadGraph(ctx)
	if err != nil {
		return fmt.Errorf("loading campus: %w", err)
	}

	if err := fn(g); err != nil {
		return err
	}

	if err := store.BulkLoad(ctx, g); err != nil {
		return fmt.Errorf("storing campus: %w", err)
	}
	return nil
}

func writeMeta(source string, g *graph.CampusGraph) error {
	dir, err := dataDir()
	if err != nil {
		return err
	}

	meta := map[string]any{
		"version":     Version,
		"source":      source,
		"stats":       g.Statistics(),
		"imported_at": time.Now().UTC().Format(time.RFC3339),
	}

	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing meta.json: %w", err)
	}
	return nil
}

func sourceDocument() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}

	metaBytes, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading meta.json: %w", err)
	}

	var meta map[string]any
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return "", fmt.Errorf("parsing meta.json: %w", err)
	}

	source, _ := meta["source"].(string)
	return source, nil
}

func parseFeatures(raw []string) (graph.FeatureSet, error) {
	features := graph.NewFeatureSet()
	for _, item := range raw {
		for _, name := range strings.Split(item, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			f, err := graph.ParseFeature(name)
			if err != nil {
				return nil, err
			}
			features[f] = struct{}{}
		}
	}
	return features, nil
}

func pairLabel(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// CLI is the root Kong command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`
	Verbose bool             `short:"v" help:"Enable verbose output"`
	Quiet   bool             `short:"q" help:"Suppress non-essential output"`

	// Commands
	Sample       SampleCmd       `cmd:"" help:"Load the bundled demo campus"`
	Import       ImportCmd       `cmd:"" help:"Import a campus JSON document"`
	Status       StatusCmd       `cmd:"" help:"Show snapshot status"`
	Route        RouteCmd        `cmd:"" help:"Find an accessible route between two locations"`
	Alternatives AlternativesCmd `cmd:"" help:"Find alternative routes"`
	Block        BlockCmd        `cmd:"" help:"Mark a path as blocked"`
	Unblock      UnblockCmd      `cmd:"" help:"Restore a blocked path"`
	AddNode      AddNodeCmd      `cmd:"" name:"add-node" help:"Add a location"`
	AddEdge      AddEdgeCmd      `cmd:"" name:"add-edge" help:"Add a path between locations"`
	Nodes        NodesCmd        `cmd:"" help:"List campus locations"`
	Export       ExportCmd       `cmd:"" help:"Export the campus graph"`
	Stats        StatsCmd        `cmd:"" help:"Show campus network statistics"`
	Serve        ServeCmd        `cmd:"" help:"Start MCP server (stdio transport)"`
	Clean        CleanCmd        `cmd:"" help:"Delete the campus snapshot"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	kongCtx := kong.Parse(c,
		kong.Name("campusnav"),
		kong.Description("Accessibility-aware walking routes for campus"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	return kongCtx.Run()
}
