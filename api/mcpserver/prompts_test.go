package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
)

func TestTransportQuery(t *testing.T) {
	tests := []struct {
		transportType string
		want          string
	}{
		{"train", "Help me find train information for Richmond."},
		{"Tram", "Help me find tram information for Richmond."},
		{" bus ", "Help me find bus information for Richmond."},
		{"any", "Help me find public transport information for Richmond."},
		{"", "Help me find public transport information for Richmond."},
		{"ferry", "Help me find public transport information for Richmond."},
	}

	for _, tt := range tests {
		t.Run(tt.transportType, func(t *testing.T) {
			got := TransportQuery("Richmond", tt.transportType)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("TransportQuery(%q) = %q", tt.transportType, got)
			}
		})
	}
}

func TestJourneyPlanner(t *testing.T) {
	got := JourneyPlanner("Flinders Street", "Box Hill")

	if !strings.HasPrefix(got, "Help me plan a journey from Flinders Street to Box Hill") {
		t.Errorf("Unexpected opening: %q", got)
	}
	for i := 1; i <= 5; i++ {
		if !strings.Contains(got, "\n"+string(rune('0'+i))+". ") {
			t.Errorf("Missing step %d", i)
		}
	}
}

func TestPromptHandlers(t *testing.T) {
	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"location": "Southern Cross", "transport_type": "train"}

	result, err := handleTransportQuery(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Messages) != 1 || result.Messages[0].Role != mcp.RoleUser {
		t.Fatalf("Expected a single user message, got %+v", result.Messages)
	}
	text, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok || !strings.Contains(text.Text, "train information for Southern Cross") {
		t.Errorf("Unexpected message %+v", result.Messages[0].Content)
	}

	req.Params.Arguments = map[string]string{"origin": "Frankston"}
	if _, err := handleJourneyPlanner(context.Background(), req); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error without destination, got %v", err)
	}
}
