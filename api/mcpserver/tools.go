package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
)

const routeTypeHelp = "Transport mode (0=Train, 1=Tram, 2=Bus, 3=V/Line, 4=Night Bus)"

var routeTypesItems = map[string]any{
	"type":    "integer",
	"minimum": 0,
	"maximum": 4,
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("get_departures",
				mcp.WithDescription("Get departure times for all routes from a specific stop, soonest first."),
				mcp.WithTitleAnnotation("Departures"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
				mcp.WithNumber("stop_id",
					mcp.Required(),
					mcp.Description("Identifier of the stop, as returned by search_stops"),
				),
				mcp.WithNumber("route_type",
					mcp.Description(routeTypeHelp+". Defaults to 0 (Train)."),
					mcp.Min(0),
					mcp.Max(4),
				),
				mcp.WithNumber("max_results",
					mcp.Description("Maximum number of departures to return"),
					mcp.DefaultNumber(models.DefaultMaxResults),
					mcp.Min(1),
					mcp.Max(models.MaxMaxResults),
				),
				mcp.WithString("date_utc",
					mcp.Description(`Departures on or after this time (ISO 8601 UTC, e.g. "2025-08-31T14:00:00Z")`),
				),
				mcp.WithNumber("route_id",
					mcp.Description("Only departures for this route"),
				),
			),
			Handler: s.handleGetDepartures,
		},
		{
			Tool: mcp.NewTool("search_stops",
				mcp.WithDescription("Search for stops by name. The same stop may be listed once per transport mode."),
				mcp.WithTitleAnnotation("Stop search"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
				mcp.WithString("search_term",
					mcp.Required(),
					mcp.Description("Search term for the stop name, e.g. \"Flinders Street\""),
				),
				mcp.WithArray("route_types",
					mcp.Description("Optional list of transport modes to filter by. "+routeTypeHelp),
					mcp.Items(routeTypesItems),
				),
			),
			Handler: s.handleSearchStops,
		},
		{
			Tool: mcp.NewTool("get_routes",
				mcp.WithDescription("Get routes, optionally filtered by name, transport mode or route id."),
				mcp.WithTitleAnnotation("Routes"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
				mcp.WithArray("route_types",
					mcp.Description("Optional list of transport modes to filter by. "+routeTypeHelp),
					mcp.Items(routeTypesItems),
				),
				mcp.WithNumber("route_id",
					mcp.Description("Fetch a single route by id"),
				),
				mcp.WithString("route_name",
					mcp.Description("Optional route name to filter by"),
				),
			),
			Handler: s.handleGetRoutes,
		},
		{
			Tool: mcp.NewTool("get_disruptions",
				mcp.WithDescription("Get service disruptions, optionally for some transport modes or a single route."),
				mcp.WithTitleAnnotation("Disruptions"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
				mcp.WithArray("route_types",
					mcp.Description("Optional list of transport modes; only disruptions affecting these modes are returned. "+routeTypeHelp),
					mcp.Items(routeTypesItems),
				),
				mcp.WithNumber("route_id",
					mcp.Description("Only disruptions for this route"),
				),
				mcp.WithString("disruption_status",
					mcp.Description("current or planned"),
					mcp.Enum(models.DisruptionStatusCurrent, models.DisruptionStatusPlanned),
				),
			),
			Handler: s.handleGetDisruptions,
		},
		{
			Tool: mcp.NewTool("get_route_types",
				mcp.WithDescription("Get all available transport modes in Melbourne."),
				mcp.WithTitleAnnotation("Transport modes"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: s.handleGetRouteTypes,
		},
	}
}

func (s *Server) handleGetDepartures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())

	q, err := departuresQuery(args)
	if err != nil {
		return errorResult(apperr.WithOp(err, "get_departures")), nil
	}

	departures, err := s.client.GetDepartures(ctx, q)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(formatDepartures(q, departures), departures)
}

func departuresQuery(args arguments) (models.DeparturesQuery, error) {
	var (
		q   models.DeparturesQuery
		err error
	)

	if q.StopID, err = args.requiredInt("stop_id"); err != nil {
		return q, err
	}
	if q.RouteType, err = args.routeType("route_type", models.Train); err != nil {
		return q, err
	}
	if q.MaxResults, err = args.int("max_results", models.DefaultMaxResults); err != nil {
		return q, err
	}
	if q.DateUTC, err = args.time("date_utc"); err != nil {
		return q, err
	}
	if q.RouteID, err = args.int("route_id", 0); err != nil {
		return q, err
	}
	return q, nil
}

func (s *Server) handleSearchStops(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())

	term, err := args.requiredString("search_term")
	if err != nil {
		return errorResult(apperr.WithOp(err, "search_stops")), nil
	}
	types, err := args.routeTypes("route_types")
	if err != nil {
		return errorResult(apperr.WithOp(err, "search_stops")), nil
	}

	stops, err := s.client.SearchStops(ctx, models.StopQuery{Name: term, RouteTypes: types})
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(formatStops(term, stops), stops)
}

func (s *Server) handleGetRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())

	f, err := routeFilter(args)
	if err != nil {
		return errorResult(apperr.WithOp(err, "get_routes")), nil
	}

	routes, err := s.client.GetRoutes(ctx, f)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(formatRoutes(routes), routes)
}

func routeFilter(args arguments) (models.RouteFilter, error) {
	var (
		f   models.RouteFilter
		err error
	)

	if f.RouteTypes, err = args.routeTypes("route_types"); err != nil {
		return f, err
	}
	if f.RouteID, err = args.int("route_id", 0); err != nil {
		return f, err
	}
	if f.RouteName, err = args.string("route_name"); err != nil {
		return f, err
	}
	return f, nil
}

func (s *Server) handleGetDisruptions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())

	f, err := disruptionFilter(args)
	if err != nil {
		return errorResult(apperr.WithOp(err, "get_disruptions")), nil
	}

	disruptions, err := s.client.GetDisruptions(ctx, f)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(formatDisruptions(disruptions), disruptions)
}

func disruptionFilter(args arguments) (models.DisruptionFilter, error) {
	var (
		f   models.DisruptionFilter
		err error
	)

	if f.RouteTypes, err = args.routeTypes("route_types"); err != nil {
		return f, err
	}
	if f.RouteID, err = args.int("route_id", 0); err != nil {
		return f, err
	}
	if f.Status, err = args.string("disruption_status"); err != nil {
		return f, err
	}
	f.Status = strings.ToLower(f.Status)
	return f, nil
}

func (s *Server) handleGetRouteTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types, err := s.client.GetRouteTypes(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	return toolResult(formatRouteTypes(types), types)
}
