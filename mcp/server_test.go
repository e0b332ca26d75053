package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uninav/campusnav/internal/campusdata"
)

func newTestServer() *Server {
	return NewServer(campusdata.BuildSampleCampus())
}

func TestListTools(t *testing.T) {
	t.Parallel()

	tools := newTestServer().ListTools()
	require.Len(t, tools, 6)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description)
		require.NotNil(t, tool.InputSchema)
		assert.Equal(t, "object", tool.InputSchema.Type)
	}

	assert.Equal(t, []string{
		"campus_find_route",
		"campus_alternatives",
		"campus_block_path",
		"campus_unblock_path",
		"campus_statistics",
		"campus_list_nodes",
	}, names)
}

func TestListResources(t *testing.T) {
	t.Parallel()

	resources := newTestServer().ListResources()
	require.Len(t, resources, 2)
	assert.Equal(t, "campus://overview", resources[0].URI)
	assert.Equal(t, "campus://blocked", resources[1].URI)
}

func TestCallTool_FindRoute(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	result, err := s.CallTool(context.Background(), "campus_find_route", map[string]any{
		"start":      "hub_central",
		"end":        "bs_main_entrance",
		"preference": "most_sheltered",
	})
	require.NoError(t, err)

	assert.Contains(t, result, "Route from **hub_central** to **bs_main_entrance**")
	assert.Contains(t, result, "most_sheltered")
	assert.Contains(t, result, "Total distance: 110m")
	assert.Contains(t, result, "Accessibility score: 100/100")
	assert.Contains(t, result, "Sheltered: 100%")
}

func TestCallTool_FindRoute_NoRoute(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	// The only path into bs_level1 is blocked in the sample campus.
	result, err := s.CallTool(context.Background(), "campus_find_route", map[string]any{
		"start": "hub_central",
		"end":   "bs_level1",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "No accessible route found")
}

func TestCallTool_FindRoute_BadPreference(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	result, err := s.CallTool(context.Background(), "campus_find_route", map[string]any{
		"start":      "hub_central",
		"end":        "bs_main_entrance",
		"preference": "scenic",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Unknown preference 'scenic'")
}

func TestCallTool_FindRoute_ConstraintOverrides(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	// The direct corridor is 3.0m wide, so a 3.2m minimum forces a failure.
	result, err := s.CallTool(context.Background(), "campus_find_route", map[string]any{
		"start":     "hub_central",
		"end":       "bs_north_entrance",
		"min_width": 3.2,
	})
	require.NoError(t, err)
	assert.Contains(t, result, "No accessible route found")
}

func TestCallTool_Alternatives(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	result, err := s.CallTool(context.Background(), "campus_alternatives", map[string]any{
		"start": "hub_central",
		"end":   "bs_main_entrance",
	})
	require.NoError(t, err)

	assert.Contains(t, result, "alternative route(s)")
	assert.Contains(t, result, "shortest")
	assert.Contains(t, result, "flattest")
	assert.Contains(t, result, "most_sheltered")
	assert.NotContains(t, result, "balanced", "default count of 3 stops before balanced")
}

func TestCallTool_BlockAndUnblockPath(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	ctx := context.Background()

	until := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	result, err := s.CallTool(ctx, "campus_block_path", map[string]any{
		"from":   "hub_central",
		"to":     "bs_main_entrance",
		"reason": "Maintenance",
		"until":  until,
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Blocked path between 'hub_central' and 'bs_main_entrance'")
	assert.Contains(t, result, "Maintenance")
	assert.Contains(t, result, until)

	// Routing now detours around the blocked corridor.
	routeResult, err := s.CallTool(ctx, "campus_find_route", map[string]any{
		"start":      "hub_central",
		"end":        "bs_main_entrance",
		"preference": "shortest",
	})
	require.NoError(t, err)
	assert.NotContains(t, routeResult, "Total distance: 110m")

	result, err = s.CallTool(ctx, "campus_unblock_path", map[string]any{
		"from": "hub_central",
		"to":   "bs_main_entrance",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Restored path")

	routeResult, err = s.CallTool(ctx, "campus_find_route", map[string]any{
		"start":      "hub_central",
		"end":        "bs_main_entrance",
		"preference": "shortest",
	})
	require.NoError(t, err)
	assert.Contains(t, routeResult, "Total distance: 110m")
}

func TestCallTool_BlockPath_InvalidUntil(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	result, err := s.CallTool(context.Background(), "campus_block_path", map[string]any{
		"from":   "hub_central",
		"to":     "bs_main_entrance",
		"reason": "Maintenance",
		"until":  "next tuesday",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Invalid until timestamp")
}

func TestCallTool_BlockPath_UnknownPair(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	result, err := s.CallTool(context.Background(), "campus_block_path", map[string]any{
		"from":   "hub_central",
		"to":     "elderhall",
		"reason": "Event",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "No path found")
}

func TestCallTool_Statistics(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	result, err := s.CallTool(context.Background(), "campus_statistics", nil)
	require.NoError(t, err)

	assert.Contains(t, result, "**Locations:** 19")
	assert.Contains(t, result, "**Paths:** 26")
	assert.Contains(t, result, "**Network length:** 3.20 km")
	assert.Contains(t, result, "**Blocked paths:** 2")
	assert.Contains(t, result, "**Buildings:** 11")
}

func TestCallTool_ListNodes(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	result, err := s.CallTool(context.Background(), "campus_list_nodes", map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result, "## Campus Locations (19)")
	assert.Contains(t, result, "- **hub_central**:")

	result, err = s.CallTool(context.Background(), "campus_list_nodes", map[string]any{
		"building": "Barr Smith Library",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "bs_main_entrance")
	assert.NotContains(t, result, "hub_central")

	result, err = s.CallTool(context.Background(), "campus_list_nodes", map[string]any{
		"building": "Nonexistent Hall",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "No locations found in building 'Nonexistent Hall'")
}

func TestCallTool_Unknown(t *testing.T) {
	t.Parallel()

	_, err := newTestServer().CallTool(context.Background(), "campus_teleport", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestReadResource(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	ctx := context.Background()

	overview, err := s.ReadResource(ctx, "campus://overview")
	require.NoError(t, err)
	assert.Contains(t, overview, "# Campus Path Network Overview")
	assert.Contains(t, overview, campusdata.SampleCampusName)
	assert.Contains(t, overview, "## Routing Preferences")

	blocked, err := s.ReadResource(ctx, "campus://blocked")
	require.NoError(t, err)
	// The report collapses the two directions into one line.
	assert.Equal(t, 1, strings.Count(blocked, "Construction - temporary path closure"))

	_, err = s.ReadResource(ctx, "campus://weather")
	require.Error(t, err)
}

func TestHandleRequest_Initialize(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	resp := s.handleRequest(context.Background(), map[string]any{
		"jsonrpc": "2.0",
		"id":      float64(1),
		"method":  "initialize",
	})

	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, float64(1), resp["id"])

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
}

func TestHandleRequest_ToolsList(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	resp := s.handleRequest(context.Background(), map[string]any{
		"id":     float64(2),
		"method": "tools/list",
	})

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	tools, ok := result["tools"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, tools, 6)
}

func TestHandleRequest_ToolsCall(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	resp := s.handleRequest(context.Background(), map[string]any{
		"id":     float64(3),
		"method": "tools/call",
		"params": map[string]any{
			"name":      "campus_statistics",
			"arguments": map[string]any{},
		},
	})

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	content, ok := result["content"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	assert.Contains(t, content[0]["text"], "**Locations:** 19")
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	resp := s.handleRequest(context.Background(), map[string]any{
		"id":     float64(4),
		"method": "prompts/list",
	})

	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, -32601, errObj["code"])
	assert.Contains(t, errObj["message"], "prompts/list")
}

func TestRun_StdioRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	stdin := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	var stdout bytes.Buffer

	require.NoError(t, s.Run(context.Background(), stdin, &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)

	var initResp map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &initResp))
	assert.Equal(t, float64(1), initResp["id"])

	var listResp map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &listResp))
	assert.Equal(t, float64(2), listResp["id"])
}

func TestRun_NilStreams(t *testing.T) {
	t.Parallel()

	require.Error(t, newTestServer().Run(context.Background(), nil, nil))
}

func TestHandleRequest_ToolsCall_MissingParams(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	resp := s.handleRequest(context.Background(), map[string]any{
		"id":     float64(5),
		"method": "tools/call",
	})

	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, -32602, errObj["code"])
}
