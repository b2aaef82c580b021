package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
)

type serverPrompt struct {
	prompt  mcp.Prompt
	handler server.PromptHandlerFunc
}

func (s *Server) prompts() []serverPrompt {
	return []serverPrompt{
		{
			prompt: mcp.NewPrompt("transport_query",
				mcp.WithPromptDescription("Ask about Melbourne public transport around a location"),
				mcp.WithArgument("location",
					mcp.RequiredArgument(),
					mcp.ArgumentDescription("Place, station or suburb, e.g. \"Flinders Street\""),
				),
				mcp.WithArgument("transport_type",
					mcp.ArgumentDescription("train, tram, bus or any (default any)"),
				),
			),
			handler: handleTransportQuery,
		},
		{
			prompt: mcp.NewPrompt("journey_planner",
				mcp.WithPromptDescription("Plan a journey across Melbourne public transport"),
				mcp.WithArgument("origin",
					mcp.RequiredArgument(),
					mcp.ArgumentDescription("Where the journey starts"),
				),
				mcp.WithArgument("destination",
					mcp.RequiredArgument(),
					mcp.ArgumentDescription("Where the journey ends"),
				),
			),
			handler: handleJourneyPlanner,
		},
	}
}

var transportQueries = map[string]string{
	"train": "Help me find train information for %s. Include departures, any disruptions, and nearby stops.",
	"tram":  "Help me find tram information for %s. Include stops, routes, and current service status.",
	"bus":   "Help me find bus information for %s. Include nearby stops, routes, and any delays.",
	"any":   "Help me find public transport information for %s. Include all available transport options, departures, and any service disruptions.",
}

// TransportQuery renders the transport_query prompt; unknown transport types fall back to "any"
func TransportQuery(location, transportType string) string {
	tmpl, ok := transportQueries[strings.ToLower(strings.TrimSpace(transportType))]
	if !ok {
		tmpl = transportQueries["any"]
	}
	return fmt.Sprintf(tmpl, location)
}

const journeyTemplate = `Help me plan a journey from %s to %s using Melbourne public transport. Please:

1. Find the best transport options (train, tram, bus)
2. Check for any current service disruptions
3. Provide departure times and estimated journey duration
4. Suggest alternative routes if available
5. Include any accessibility information if relevant

Use the PTV tools to get real-time information for this journey.`

func JourneyPlanner(origin, destination string) string {
	return fmt.Sprintf(journeyTemplate, origin, destination)
}

func handleTransportQuery(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	location := strings.TrimSpace(req.Params.Arguments["location"])
	if location == "" {
		return nil, apperr.Validation("transport_query", "location is required")
	}

	return userPrompt("Melbourne transport query", TransportQuery(location, req.Params.Arguments["transport_type"])), nil
}

func handleJourneyPlanner(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	origin := strings.TrimSpace(req.Params.Arguments["origin"])
	destination := strings.TrimSpace(req.Params.Arguments["destination"])
	if origin == "" || destination == "" {
		return nil, apperr.Validation("journey_planner", "origin and destination are required")
	}

	return userPrompt("Melbourne journey plan", JourneyPlanner(origin, destination)), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
