// Package mcpserver exposes a ptv.Client to AI assistants over the Model
// Context Protocol.
//
// It registers five read-only tools (get_departures, search_stops,
// get_routes, get_disruptions, get_route_types), two resources
// (ptv://route-types, ptv://config) and two prompt templates
// (transport_query, journey_planner). Each tool call maps to one upstream
// request through the client; failures come back as MCP error results
// rather than protocol errors so the assistant can read them.
package mcpserver

import (
	"context"
	"io"
	stdlog "log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/jusunglee/ptv-mcp-go/pkg/ptv"
)

const (
	ServerName = "PTV Melbourne Transport"

	instructions = "Real-time Melbourne public transport data from the PTV Timetable API. " +
		"Use search_stops to find a stop id, then get_departures with that id and its route_type. " +
		"Route types: 0=Train, 1=Tram, 2=Bus, 3=V/Line, 4=Night Bus."
)

// Server wires a ptv.Client into an MCP server
type Server struct {
	client ptv.Client
	mcp    *server.MCPServer
	now    func() time.Time
}

// NewServer creates the MCP server and registers every tool, resource and prompt
func NewServer(client ptv.Client, version string) *Server {
	s := &Server{
		client: client,
		now:    time.Now,
	}

	s.mcp = server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	for _, t := range s.tools() {
		s.mcp.AddTool(t.Tool, s.instrument(t.Tool.Name, t.Handler))
	}
	for _, r := range s.resources() {
		s.mcp.AddResource(r.resource, r.handler)
	}
	for _, p := range s.prompts() {
		s.mcp.AddPrompt(p.prompt, p.handler)
	}

	return s
}

// MCPServer returns the underlying protocol server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves JSON-RPC over in/out until ctx is done or in reaches EOF
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	log.Info().Str("transport", "stdio").Msg("MCP server ready")
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler serves the streamable HTTP transport
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// instrument logs every tool call with its outcome and latency
func (s *Server) instrument(name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Debug().Str("tool", name).Str("args", describeArgs(arguments(req.GetArguments()))).Msg("Tool arguments")

		start := time.Now()
		result, err := next(ctx, req)

		failed := err != nil || (result != nil && result.IsError)
		event := log.Info()
		if failed {
			event = log.Warn()
		}
		event.
			Str("tool", name).
			Bool("error", failed).
			Str("latency", time.Since(start).String()).
			Msg("Tool call")

		return result, err
	}
}
