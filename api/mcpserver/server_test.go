package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
	"github.com/jusunglee/ptv-mcp-go/internal/ptvtest"
	"github.com/jusunglee/ptv-mcp-go/pkg/ptv"
)

// MockClient implements ptv.Client for testing
type MockClient struct {
	departures  []models.Departure
	stops       []models.Stop
	routes      []models.Route
	disruptions []models.Disruption
	err         error

	lastDepartures  models.DeparturesQuery
	lastStops       models.StopQuery
	lastRoutes      models.RouteFilter
	lastDisruptions models.DisruptionFilter
}

func (m *MockClient) GetDepartures(ctx context.Context, q models.DeparturesQuery) ([]models.Departure, error) {
	m.lastDepartures = q
	return m.departures, m.err
}

func (m *MockClient) SearchStops(ctx context.Context, q models.StopQuery) ([]models.Stop, error) {
	m.lastStops = q
	return m.stops, m.err
}

func (m *MockClient) GetRoutes(ctx context.Context, f models.RouteFilter) ([]models.Route, error) {
	m.lastRoutes = f
	return m.routes, m.err
}

func (m *MockClient) GetDisruptions(ctx context.Context, f models.DisruptionFilter) ([]models.Disruption, error) {
	m.lastDisruptions = f
	return m.disruptions, m.err
}

func (m *MockClient) GetRouteTypes(ctx context.Context) ([]models.RouteTypeInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	var types []models.RouteTypeInfo
	for _, rt := range models.AllRouteTypes() {
		types = append(types, models.RouteTypeInfo{RouteType: rt, Name: rt.String()})
	}
	return types, nil
}

func (m *MockClient) RouteTypesDocument(ctx context.Context) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(`{"route_types":[{"route_type_name":"Train","route_type":0}],"status":{"version":"3.0","health":1}}`), nil
}

func (m *MockClient) Config() ptv.Config {
	cfg := ptv.DefaultConfig()
	cfg.DevID = "3000123"
	cfg.DevKey = "secret"
	return cfg
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	for _, tool := range s.tools() {
		if tool.Tool.Name == name {
			handler = s.instrument(name, tool.Handler)
		}
	}
	if handler == nil {
		t.Fatalf("No tool named %s", name)
	}

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("Tool %s returned protocol error: %v", name, err)
	}
	if result == nil {
		t.Fatalf("Tool %s returned nil result", name)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult, i int) string {
	t.Helper()
	if len(result.Content) <= i {
		t.Fatalf("Expected at least %d content blocks, got %d", i+1, len(result.Content))
	}
	text, ok := result.Content[i].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[i])
	}
	return text.Text
}

func TestToolsRegistered(t *testing.T) {
	s := NewServer(&MockClient{}, "test")

	want := []string{"get_departures", "search_stops", "get_routes", "get_disruptions", "get_route_types"}
	tools := s.tools()
	if len(tools) != len(want) {
		t.Fatalf("Expected %d tools, got %d", len(want), len(tools))
	}
	for i, name := range want {
		if tools[i].Tool.Name != name {
			t.Errorf("Tool %d: expected %s, got %s", i, name, tools[i].Tool.Name)
		}
		if tools[i].Tool.Annotations.ReadOnlyHint == nil || !*tools[i].Tool.Annotations.ReadOnlyHint {
			t.Errorf("Tool %s should be marked read-only", name)
		}
	}

	if len(s.resources()) != 2 || len(s.prompts()) != 2 {
		t.Errorf("Expected 2 resources and 2 prompts")
	}
}

func TestGetDeparturesTool(t *testing.T) {
	scheduled := time.Date(2025, 8, 31, 14, 3, 0, 0, time.UTC)
	estimated := scheduled.Add(2 * time.Minute)
	client := &MockClient{
		departures: []models.Departure{
			{StopID: 1071, RouteID: 2, ScheduledUTC: scheduled, EstimatedUTC: &estimated, Platform: "2", DisruptionIDs: []int64{312544}},
			{StopID: 1071, RouteID: 6, ScheduledUTC: scheduled.Add(9 * time.Minute), DisruptionIDs: []int64{}},
		},
	}
	s := NewServer(client, "test")

	result := callTool(t, s, "get_departures", map[string]any{
		"stop_id":     float64(1071),
		"route_type":  "tram",
		"max_results": "3",
		"date_utc":    "2025-08-31T14:00:00Z",
	})
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result, 0))
	}

	q := client.lastDepartures
	if q.StopID != 1071 || q.RouteType != models.Tram || q.MaxResults != 3 {
		t.Errorf("Unexpected query %+v", q)
	}
	if q.DateUTC == nil || !q.DateUTC.Equal(time.Date(2025, 8, 31, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date_utc to be parsed, got %v", q.DateUTC)
	}

	summary := resultText(t, result, 0)
	for _, want := range []string{
		"Departures from stop 1071 (Tram)",
		"• Route 2 - Est: 2025-08-31T14:05:00Z Platform 2 [disrupted]",
		"• Route 6 - Sch: 2025-08-31T14:12:00Z",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, summary)
		}
	}

	var decoded []models.Departure
	if err := json.Unmarshal([]byte(resultText(t, result, 1)), &decoded); err != nil {
		t.Fatalf("Second block should be JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].RouteID != 2 {
		t.Errorf("Unexpected JSON data %+v", decoded)
	}
}

func TestGetDeparturesDefaults(t *testing.T) {
	client := &MockClient{}
	s := NewServer(client, "test")

	result := callTool(t, s, "get_departures", map[string]any{"stop_id": 1071})
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result, 0))
	}
	if client.lastDepartures.RouteType != models.Train || client.lastDepartures.MaxResults != models.DefaultMaxResults {
		t.Errorf("Expected train and default limit, got %+v", client.lastDepartures)
	}
	if !strings.Contains(resultText(t, result, 0), "No departures found") {
		t.Errorf("Expected empty message, got %q", resultText(t, result, 0))
	}
}

func TestToolArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"missing stop id", "get_departures", map[string]any{}},
		{"fractional stop id", "get_departures", map[string]any{"stop_id": 10.5}},
		{"bad route type", "get_departures", map[string]any{"stop_id": 1, "route_type": 9}},
		{"unknown mode name", "get_departures", map[string]any{"stop_id": 1, "route_type": "ferry"}},
		{"bad date", "get_departures", map[string]any{"stop_id": 1, "date_utc": "tomorrow"}},
		{"missing search term", "search_stops", map[string]any{"search_term": "  "}},
		{"search term not a string", "search_stops", map[string]any{"search_term": 5}},
		{"bad route types", "get_routes", map[string]any{"route_types": []any{0, 12}}},
		{"route id not a number", "get_disruptions", map[string]any{"route_id": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&MockClient{}, "test")
			result := callTool(t, s, tt.tool, tt.args)
			if !result.IsError {
				t.Fatalf("Expected error result")
			}
			text := resultText(t, result, 0)
			if !strings.HasPrefix(text, "validation: "+tt.tool+":") {
				t.Errorf("Expected validation error for %s, got %q", tt.tool, text)
			}
		})
	}
}

func TestClientErrorsBecomeToolErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"not found", apperr.NotFound("get_departures", "stop 99 not found for route type Train"), "not_found: "},
		{"upstream", apperr.Upstream("get_departures", 502, "HTTP 502", nil), "upstream: "},
		{"untyped", context.DeadlineExceeded, "upstream: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&MockClient{err: tt.err}, "test")
			result := callTool(t, s, "get_departures", map[string]any{"stop_id": 99})
			if !result.IsError {
				t.Fatalf("Expected error result")
			}
			if text := resultText(t, result, 0); !strings.HasPrefix(text, tt.prefix) {
				t.Errorf("Expected prefix %q, got %q", tt.prefix, text)
			}
		})
	}
}

func TestSearchStopsTool(t *testing.T) {
	client := &MockClient{
		stops: []models.Stop{
			{ID: 1071, Name: "Flinders Street Railway Station", Suburb: "Melbourne City", RouteType: models.Train},
			{ID: 1071, Name: "Flinders Street Railway Station", Suburb: "Melbourne City", RouteType: models.Tram},
		},
	}
	s := NewServer(client, "test")

	result := callTool(t, s, "search_stops", map[string]any{
		"search_term": " Flinders Street ",
		"route_types": []any{float64(0), "tram"},
	})
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result, 0))
	}

	if client.lastStops.Name != "Flinders Street" {
		t.Errorf("Expected trimmed term, got %q", client.lastStops.Name)
	}
	if len(client.lastStops.RouteTypes) != 2 || client.lastStops.RouteTypes[1] != models.Tram {
		t.Errorf("Unexpected route types %v", client.lastStops.RouteTypes)
	}

	// Duplicates across modes are shown as returned
	summary := resultText(t, result, 0)
	if strings.Count(summary, "(ID: 1071)") != 2 {
		t.Errorf("Expected both entries for stop 1071:\n%s", summary)
	}
}

func TestGetRoutesAndDisruptionsTools(t *testing.T) {
	client := &MockClient{
		routes: []models.Route{{ID: 6, Name: "Frankston", RouteType: models.Train}},
		disruptions: []models.Disruption{
			{ID: 401122, Category: "metro_tram", Title: "Route 96 diversion", Status: "Current", Description: strings.Repeat("x", 250)},
		},
	}
	s := NewServer(client, "test")

	result := callTool(t, s, "get_routes", map[string]any{"route_types": float64(0), "route_name": "Frankston"})
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result, 0))
	}
	if client.lastRoutes.RouteName != "Frankston" || len(client.lastRoutes.RouteTypes) != 1 {
		t.Errorf("Unexpected filter %+v", client.lastRoutes)
	}
	if !strings.Contains(resultText(t, result, 0), "• Frankston (ID: 6) - Train") {
		t.Errorf("Unexpected summary %q", resultText(t, result, 0))
	}

	result = callTool(t, s, "get_disruptions", map[string]any{"route_types": []any{"Tram"}, "disruption_status": "Current"})
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result, 0))
	}
	if client.lastDisruptions.Status != models.DisruptionStatusCurrent {
		t.Errorf("Expected status to be normalised, got %q", client.lastDisruptions.Status)
	}
	summary := resultText(t, result, 0)
	if !strings.Contains(summary, "Metro Tram Disruptions:") || !strings.Contains(summary, "• Route 96 diversion (Current)") {
		t.Errorf("Unexpected summary:\n%s", summary)
	}
	if !strings.Contains(summary, strings.Repeat("x", 200)+"...") {
		t.Errorf("Expected long description to be truncated")
	}
}

func TestGetRouteTypesTool(t *testing.T) {
	s := NewServer(&MockClient{}, "test")

	first := resultText(t, callTool(t, s, "get_route_types", nil), 0)
	second := resultText(t, callTool(t, s, "get_route_types", nil), 0)
	if first != second {
		t.Errorf("Expected identical results across calls")
	}
	if strings.Count(first, "•") != 5 || !strings.Contains(first, "• Night Bus (ID: 4)") {
		t.Errorf("Unexpected route types:\n%s", first)
	}
}

// Full stack: JSON-RPC in, signed requests to the fake upstream, tool result out
func TestHandleMessageAgainstFakeUpstream(t *testing.T) {
	upstream := ptvtest.NewServer()
	defer upstream.Close()

	client, err := ptv.NewRemote(ptv.Config{DevID: ptvtest.DevID, DevKey: ptvtest.DevKey, BaseURL: upstream.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	s := NewServer(client, "test")

	message := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search_stops","arguments":{"search_term":"Flinders Street"}}}`
	response := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(message))

	body, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to encode response: %v", err)
	}

	var decoded struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if decoded.Result.IsError || len(decoded.Result.Content) != 2 {
		t.Fatalf("Unexpected response %s", body)
	}
	if !strings.Contains(decoded.Result.Content[0].Text, "Flinders Street") {
		t.Errorf("Expected a Flinders Street stop, got %q", decoded.Result.Content[0].Text)
	}
	last := upstream.LastRequest()
	if last == nil || !strings.Contains(last.String(), "/v3/search/Flinders%20Street") {
		t.Errorf("Unexpected upstream request %v", last)
	}
}
