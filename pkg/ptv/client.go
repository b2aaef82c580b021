package ptv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jusunglee/ptv-mcp-go/internal/models"
	"github.com/jusunglee/ptv-mcp-go/internal/timetable"
)

// Client defines the interface for accessing PTV timetable data
// Every call maps to exactly one upstream request; nothing is cached or retried
type Client interface {
	GetDepartures(ctx context.Context, q models.DeparturesQuery) ([]models.Departure, error)

	SearchStops(ctx context.Context, q models.StopQuery) ([]models.Stop, error)

	GetRoutes(ctx context.Context, f models.RouteFilter) ([]models.Route, error)

	GetDisruptions(ctx context.Context, f models.DisruptionFilter) ([]models.Disruption, error)

	GetRouteTypes(ctx context.Context) ([]models.RouteTypeInfo, error)
	RouteTypesDocument(ctx context.Context) (json.RawMessage, error)

	Config() Config
}

// Config holds configuration for the PTV client
// DevID and DevKey are issued by PTV and required for every request
type Config struct {
	DevID      string
	DevKey     string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

// DefaultConfig returns default configuration without credentials
func DefaultConfig() Config {
	return Config{
		BaseURL:    timetable.DefaultBaseURL,
		APIVersion: timetable.DefaultAPIVersion,
		Timeout:    timetable.DefaultTimeout,
	}
}

// KeyConfigured reports whether a developer key is present without exposing it
func (c Config) KeyConfigured() bool {
	return c.DevKey != ""
}
