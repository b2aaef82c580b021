package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jusunglee/ptv-mcp-go/internal/models"
)

const (
	RouteTypesURI = "ptv://route-types"
	ConfigURI     = "ptv://config"

	jsonMIME = "application/json"
)

type serverResource struct {
	resource mcp.Resource
	handler  server.ResourceHandlerFunc
}

func (s *Server) resources() []serverResource {
	return []serverResource{
		{
			resource: mcp.NewResource(RouteTypesURI, "Route types",
				mcp.WithResourceDescription("Transport modes as published by the PTV Timetable API"),
				mcp.WithMIMEType(jsonMIME),
			),
			handler: s.readRouteTypes,
		},
		{
			resource: mcp.NewResource(ConfigURI, "Server configuration",
				mcp.WithResourceDescription("PTV API endpoint and credential status; the developer key is never exposed"),
				mcp.WithMIMEType(jsonMIME),
			),
			handler: s.readConfig,
		},
	}
}

func (s *Server) readRouteTypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	raw, err := s.client.RouteTypesDocument(ctx)
	if err != nil {
		return nil, err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("format route types: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: jsonMIME,
			Text:     pretty.String(),
		},
	}, nil
}

// ConfigView is the public view of the running configuration
type ConfigView struct {
	BaseURL          string         `json:"base_url"`
	APIVersion       string         `json:"api_version"`
	DevID            string         `json:"dev_id"`
	DevKeyConfigured bool           `json:"dev_key_configured"`
	RouteTypes       map[int]string `json:"route_types"`
	Timestamp        string         `json:"timestamp"`
}

func (s *Server) configView() ConfigView {
	cfg := s.client.Config()
	return ConfigView{
		BaseURL:          cfg.BaseURL,
		APIVersion:       cfg.APIVersion,
		DevID:            cfg.DevID,
		DevKeyConfigured: cfg.KeyConfigured(),
		RouteTypes:       models.RouteTypeNames(),
		Timestamp:        s.now().Format(time.RFC3339),
	}
}

func (s *Server) readConfig(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	body, err := json.MarshalIndent(s.configView(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: jsonMIME,
			Text:     string(body),
		},
	}, nil
}
