// Package mcp provides the MCP (Model Context Protocol) server for campusnav.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uninav/campusnav/internal/graph"
	"github.com/uninav/campusnav/internal/routing"
)

// Server represents the MCP server.
type Server struct {
	campus *graph.CampusGraph
	router *routing.Router
	server *mcp.Server
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server over the given campus graph.
func NewServer(campus *graph.CampusGraph) *Server {
	s := &Server{
		campus: campus,
		router: routing.NewRouter(campus),
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "campusnav",
		Version: "0.1.0",
	}, nil)

	return s
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "campus_find_route",
			Description: "Find an accessible walking route between two campus locations, optimized for a routing preference.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"start":      {Type: "string", Description: "Start node ID"},
					"end":        {Type: "string", Description: "End node ID"},
					"preference": {Type: "string", Description: "Routing preference: shortest, flattest, most_sheltered, with_rest_stops, or balanced"},
					"max_slope":  {Type: "number", Description: "Maximum tolerable slope percentage (default 8.0)"},
					"min_width":  {Type: "number", Description: "Minimum path width in meters (default 1.2)"},
				},
				Required: []string{"start", "end"},
			},
		},
		{
			Name:        "campus_alternatives",
			Description: "Find alternative routes between two locations, one per routing preference, ranked by preference order.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"start": {Type: "string", Description: "Start node ID"},
					"end":   {Type: "string", Description: "End node ID"},
					"count": {Type: "integer", Description: "Maximum number of alternatives (default 3)"},
				},
				Required: []string{"start", "end"},
			},
		},
		{
			Name:        "campus_block_path",
			Description: "Mark a path between two locations as blocked in both directions, with a reason and optional expiry.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"from":   {Type: "string", Description: "From node ID"},
					"to":     {Type: "string", Description: "To node ID"},
					"reason": {Type: "string", Description: "Why the path is blocked"},
					"until":  {Type: "string", Description: "Expected reopening time (RFC 3339), advisory only"},
				},
				Required: []string{"from", "to", "reason"},
			},
		},
		{
			Name:        "campus_unblock_path",
			Description: "Restore a previously blocked path to accessible in both directions.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"from": {Type: "string", Description: "From node ID"},
					"to":   {Type: "string", Description: "To node ID"},
				},
				Required: []string{"from", "to"},
			},
		},
		{
			Name:        "campus_statistics",
			Description: "Summary statistics for the campus graph: nodes, paths, network length, blocked paths, buildings.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
		{
			Name:        "campus_list_nodes",
			Description: "List campus locations, optionally filtered by building name.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"building": {Type: "string", Description: "Only list nodes in this building"},
				},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "campus://overview",
			Name:        "Campus Overview",
			Description: "High-level statistics about the campus path network",
			MimeType:    "text/plain",
		},
		{
			URI:         "campus://blocked",
			Name:        "Blocked Paths Report",
			Description: "All currently blocked paths with reasons and expected reopening times",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "campus_find_route":
		start, _ := args["start"].(string)
		end, _ := args["end"].(string)
		prefArg, _ := args["preference"].(string)
		maxSlope, ok := args["max_slope"].(float64)
		if !ok {
			maxSlope = routing.DefaultMaxSlope
		}
		minWidth, ok := args["min_width"].(float64)
		if !ok {
			minWidth = routing.DefaultMinWidth
		}
		return s.handleFindRoute(start, end, prefArg, maxSlope, minWidth)
	case "campus_alternatives":
		start, _ := args["start"].(string)
		end, _ := args["end"].(string)
		count, _ := args["count"].(float64)
		if count == 0 {
			count = 3
		}
		return s.handleAlternatives(start, end, int(count))
	case "campus_block_path":
		from, _ := args["from"].(string)
		to, _ := args["to"].(string)
		reason, _ := args["reason"].(string)
		untilArg, _ := args["until"].(string)
		return s.handleBlockPath(from, to, reason, untilArg)
	case "campus_unblock_path":
		from, _ := args["from"].(string)
		to, _ := args["to"].(string)
		return s.handleUnblockPath(from, to)
	case "campus_statistics":
		return s.handleStatistics()
	case "campus_list_nodes":
		building, _ := args["building"].(string)
		return s.handleListNodes(building)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "campus://overview":
		return s.getOverview(), nil
	case "campus://blocked":
		return s.getBlockedReport(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return fmt.Errorf("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)
	// Note: Do NOT use SetIndent - MCP protocol requires compact JSON (one line per message)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		resp := s.handleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	case "resources/list":
		return s.handleResourcesList(id)
	case "resources/read":
		return s.handleResourcesRead(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]any{
				"name":    "campusnav",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{
				"tools": map[string]any{
					"listChanged": false,
				},
				"resources": map[string]any{
					"listChanged": false,
				},
			},
		},
	}
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"tools": toolList,
		},
	}
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func (s *Server) handleResourcesList(id any) map[string]any {
	resources := s.ListResources()
	resourceList := make([]map[string]any, len(resources))
	for i, res := range resources {
		resourceList[i] = map[string]any{
			"uri":         res.URI,
			"name":        res.Name,
			"description": res.Description,
			"mimeType":    res.MimeType,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"resources": resourceList,
		},
	}
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	uri, _ := params["uri"].(string)

	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"contents": []map[string]any{
				{
					"uri":      uri,
					"mimeType": "text/plain",
					"text":     content,
				},
			},
		},
	}
}

// Tool Handlers

func (s *Server) handleFindRoute(start, end, prefArg string, maxSlope, minWidth float64) (string, error) {
	if start == "" || end == "" {
		return "Both start and end node IDs are required", nil
	}

	pref := routing.PreferenceBalanced
	if prefArg != "" {
		parsed, err := routing.ParsePreference(prefArg)
		if err != nil {
			return fmt.Sprintf("Unknown preference '%s'. Valid preferences: shortest, flattest, most_sheltered, with_rest_stops, balanced", prefArg), nil
		}
		pref = parsed
	}

	route, err := s.router.FindRoute(start, end, pref, maxSlope, minWidth)
	if errors.Is(err, routing.ErrNoRoute) {
		return fmt.Sprintf("No accessible route found from '%s' to '%s' with the given constraints.", start, end), nil
	}
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Route from **%s** to **%s** (%s):\n\n", start, end, pref))
	for _, line := range route.Directions() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\nAccessibility score: %.0f/100\n", route.AccessibilityScore))
	sb.WriteString(fmt.Sprintf("Sheltered: %.0f%%\n", route.ShelteredPercentage))

	return sb.String(), nil
}

func (s *Server) handleAlternatives(start, end string, count int) (string, error) {
	if start == "" || end == "" {
		return "Both start and end node IDs are required", nil
	}

	alternatives := s.router.FindAlternativeRoutes(start, end, count)
	if len(alternatives) == 0 {
		return fmt.Sprintf("No accessible routes found from '%s' to '%s'.", start, end), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d alternative route(s) from **%s** to **%s**:\n\n", len(alternatives), start, end))
	for i, alt := range alternatives {
		sb.WriteString(fmt.Sprintf("%d. **%s**: %.0fm, ~%.0f min, score %.0f/100, %.0f%% sheltered\n",
			i+1, alt.Preference, alt.Route.TotalDistance, alt.Route.EstimatedTimeMinutes,
			alt.Route.AccessibilityScore, alt.Route.ShelteredPercentage))
	}
	sb.WriteString("\nNext: Use `campus_find_route` with a preference for turn-by-turn directions.")

	return sb.String(), nil
}

func (s *Server) handleBlockPath(from, to, reason, untilArg string) (string, error) {
	if from == "" || to == "" || reason == "" {
		return "from, to, and reason are all required", nil
	}

	var until *time.Time
	if untilArg != "" {
		t, err := time.Parse(time.RFC3339, untilArg)
		if err != nil {
			return fmt.Sprintf("Invalid until timestamp '%s': expected RFC 3339", untilArg), nil
		}
		until = &t
	}

	if !s.campus.MarkPathBlocked(from, to, reason, until) {
		return fmt.Sprintf("No path found between '%s' and '%s'.", from, to), nil
	}

	msg := fmt.Sprintf("Blocked path between '%s' and '%s': %s", from, to, reason)
	if until != nil {
		msg += fmt.Sprintf(" (expected to reopen %s)", until.Format(time.RFC3339))
	}
	return msg, nil
}

func (s *Server) handleUnblockPath(from, to string) (string, error) {
	if from == "" || to == "" {
		return "Both from and to node IDs are required", nil
	}

	if !s.campus.MarkPathAccessible(from, to) {
		return fmt.Sprintf("No path found between '%s' and '%s'.", from, to), nil
	}
	return fmt.Sprintf("Restored path between '%s' and '%s' to accessible.", from, to), nil
}

func (s *Server) handleStatistics() (string, error) {
	stats := s.campus.Statistics()

	var sb strings.Builder
	sb.WriteString("## Campus Network Statistics\n\n")
	sb.WriteString(fmt.Sprintf("**Locations:** %d\n", stats.TotalNodes))
	sb.WriteString(fmt.Sprintf("**Paths:** %d\n", stats.TotalEdges))
	sb.WriteString(fmt.Sprintf("**Network length:** %.2f km\n", stats.TotalDistanceKM))
	sb.WriteString(fmt.Sprintf("**Blocked paths:** %d\n", stats.BlockedPaths))
	sb.WriteString(fmt.Sprintf("**Buildings:** %d\n", stats.Buildings))

	return sb.String(), nil
}

func (s *Server) handleListNodes(building string) (string, error) {
	nodes := s.campus.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	var sb strings.Builder
	listed := 0
	for _, n := range nodes {
		if building != "" && !strings.EqualFold(n.Building, building) {
			continue
		}
		listed++
		sb.WriteString(fmt.Sprintf("- **%s**: %s", n.ID, n.Name))
		if n.Building != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", n.Building))
		}
		if features := n.Features.List(); len(features) > 0 {
			labels := make([]string, len(features))
			for i, f := range features {
				labels[i] = string(f)
			}
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(labels, ", ")))
		}
		sb.WriteString("\n")
	}

	if listed == 0 {
		if building != "" {
			return fmt.Sprintf("No locations found in building '%s'.", building), nil
		}
		return "No locations in the campus graph.", nil
	}

	header := fmt.Sprintf("## Campus Locations (%d)\n\n", listed)
	return header + sb.String(), nil
}

// Resource Handlers

func (s *Server) getOverview() string {
	stats := s.campus.Statistics()

	var sb strings.Builder
	sb.WriteString("# Campus Path Network Overview\n\n")
	if name, ok := s.campus.Metadata()["campus_name"].(string); ok && name != "" {
		sb.WriteString(fmt.Sprintf("**Campus:** %s\n", name))
	}
	sb.WriteString(fmt.Sprintf("**Locations:** %d\n", stats.TotalNodes))
	sb.WriteString(fmt.Sprintf("**Paths:** %d\n", stats.TotalEdges))
	sb.WriteString(fmt.Sprintf("**Network length:** %.2f km\n", stats.TotalDistanceKM))
	sb.WriteString(fmt.Sprintf("**Blocked paths:** %d\n", stats.BlockedPaths))
	sb.WriteString(fmt.Sprintf("**Buildings:** %d\n", stats.Buildings))
	sb.WriteString("\n## Routing Preferences\n\n")
	sb.WriteString("- shortest: minimum walking distance\n")
	sb.WriteString("- flattest: avoid steep slopes\n")
	sb.WriteString("- most_sheltered: stay under cover\n")
	sb.WriteString("- with_rest_stops: gentle grades, rest areas welcome\n")
	sb.WriteString("- balanced: blend of all criteria\n")

	return sb.String()
}

func (s *Server) getBlockedReport() string {
	blocked := s.campus.BlockedEdges()

	var sb strings.Builder
	sb.WriteString("# Blocked Paths Report\n\n")

	if len(blocked) == 0 {
		sb.WriteString("No paths are currently blocked.\n")
		return sb.String()
	}

	seen := make(map[string]bool)
	for _, e := range blocked {
		key := e.FromNode + "\x00" + e.ToNode
		if e.ToNode < e.FromNode {
			key = e.ToNode + "\x00" + e.FromNode
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		sb.WriteString(fmt.Sprintf("- **%s** ↔ **%s**: %s", e.FromNode, e.ToNode, e.BlockedReason))
		if e.BlockedUntil != nil {
			sb.WriteString(fmt.Sprintf(" (until %s)", e.BlockedUntil.Format(time.RFC3339)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Helper functions

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}
