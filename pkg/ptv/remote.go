package ptv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
	"github.com/jusunglee/ptv-mcp-go/internal/timetable"
)

// RemoteClient implements the Client interface against the live PTV Timetable API
// It keeps no state besides its configuration and is safe for concurrent use
type RemoteClient struct {
	config Config
	api    *timetable.Client
}

// NewRemote creates a new remote PTV client
// Missing credentials are a configuration error, reported here rather than on first use
func NewRemote(config Config) (*RemoteClient, error) {
	if strings.TrimSpace(config.DevID) == "" {
		return nil, apperr.Config("PTV developer ID is required (set PTV_DEV_ID)")
	}
	if strings.TrimSpace(config.DevKey) == "" {
		return nil, apperr.Config("PTV API key is required (set PTV_DEV_KEY)")
	}

	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = defaults.APIVersion
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &RemoteClient{
		config: config,
		api:    timetable.NewClient(config.BaseURL, config.APIVersion, config.DevID, config.DevKey, config.Timeout),
	}, nil
}

// Close releases idle upstream connections
func (c *RemoteClient) Close() {
	c.api.CloseIdleConnections()
}

func (c *RemoteClient) Config() Config {
	return c.config
}

func (c *RemoteClient) GetDepartures(ctx context.Context, q models.DeparturesQuery) ([]models.Departure, error) {
	const op = "get_departures"

	if q.MaxResults == 0 {
		q.MaxResults = models.DefaultMaxResults
	}
	if err := q.Validate(); err != nil {
		return nil, apperr.WithOp(err, op)
	}

	segments := []string{"departures", "route_type", strconv.Itoa(int(q.RouteType)), "stop", strconv.Itoa(q.StopID)}
	if q.RouteID > 0 {
		segments = append(segments, "route", strconv.Itoa(q.RouteID))
	}

	params := url.Values{}
	params.Set("max_results", strconv.Itoa(q.MaxResults))
	if q.DateUTC != nil {
		params.Set("date_utc", q.DateUTC.UTC().Format(time.RFC3339))
	}

	var resp timetable.DeparturesResponse
	if err := c.api.Get(ctx, c.api.Path(segments...), params, &resp); err != nil {
		return nil, departuresError(err, q)
	}

	departures := make([]models.Departure, 0, len(resp.Departures))
	for _, d := range resp.Departures {
		departures = append(departures, d.ToModel(q.RouteType))
	}

	// max_results applies per route and direction upstream, so the merged list can be longer
	models.SortDepartures(departures)
	if len(departures) > q.MaxResults {
		departures = departures[:q.MaxResults]
	}

	log.Debug().
		Int("stop_id", q.StopID).
		Str("route_type", q.RouteType.String()).
		Int("departures", len(departures)).
		Msg("Fetched departures")

	return departures, nil
}

// departuresError turns "no such stop" answers into NotFound
// Upstream reports unknown stops either as 404 or as a 400 whose message names the stop
func departuresError(err error, q models.DeparturesQuery) error {
	const op = "get_departures"

	status := timetable.StatusCode(err)
	message := timetable.Message(err)
	if apperr.IsNotFound(err) || (status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "stop")) {
		return apperr.NotFound(op, "stop %d not found for route type %s", q.StopID, q.RouteType)
	}
	return apperr.WithOp(err, op)
}

func (c *RemoteClient) SearchStops(ctx context.Context, q models.StopQuery) ([]models.Stop, error) {
	const op = "search_stops"

	q.Name = strings.TrimSpace(q.Name)
	if err := q.Validate(); err != nil {
		return nil, apperr.WithOp(err, op)
	}

	params := url.Values{}
	addRouteTypes(params, q.RouteTypes)

	var resp timetable.SearchResponse
	if err := c.api.Get(ctx, c.api.Path("search", q.Name), params, &resp); err != nil {
		return nil, apperr.WithOp(err, op)
	}

	// Upstream may list one stop once per mode; duplicates are passed through as-is
	stops := make([]models.Stop, 0, len(resp.Stops))
	for _, s := range resp.Stops {
		stops = append(stops, s.ToModel())
	}
	return stops, nil
}

func (c *RemoteClient) GetRoutes(ctx context.Context, f models.RouteFilter) ([]models.Route, error) {
	const op = "get_routes"

	if err := f.Validate(); err != nil {
		return nil, apperr.WithOp(err, op)
	}

	if f.RouteID > 0 {
		var resp timetable.RouteResponse
		if err := c.api.Get(ctx, c.api.Path("routes", strconv.Itoa(f.RouteID)), nil, &resp); err != nil {
			if apperr.IsNotFound(err) || timetable.StatusCode(err) == http.StatusBadRequest {
				return nil, apperr.NotFound(op, "route %d not found", f.RouteID)
			}
			return nil, apperr.WithOp(err, op)
		}
		if resp.Route == nil {
			return nil, apperr.NotFound(op, "route %d not found", f.RouteID)
		}

		route := resp.Route.ToModel()
		if len(f.RouteTypes) > 0 && !containsRouteType(f.RouteTypes, route.RouteType) {
			return []models.Route{}, nil
		}
		return []models.Route{route}, nil
	}

	params := url.Values{}
	addRouteTypes(params, f.RouteTypes)
	if name := strings.TrimSpace(f.RouteName); name != "" {
		params.Set("route_name", name)
	}

	var resp timetable.RoutesResponse
	if err := c.api.Get(ctx, c.api.Path("routes"), params, &resp); err != nil {
		return nil, apperr.WithOp(err, op)
	}

	routes := make([]models.Route, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		routes = append(routes, r.ToModel())
	}
	return routes, nil
}

func (c *RemoteClient) GetDisruptions(ctx context.Context, f models.DisruptionFilter) ([]models.Disruption, error) {
	const op = "get_disruptions"

	if err := f.Validate(); err != nil {
		return nil, apperr.WithOp(err, op)
	}

	path := c.api.Path("disruptions")
	params := url.Values{}
	if f.RouteID > 0 {
		path = c.api.Path("disruptions", "route", strconv.Itoa(f.RouteID))
	} else {
		addRouteTypes(params, f.RouteTypes)
	}
	if f.Status != "" {
		params.Set("disruption_status", f.Status)
	}

	var resp timetable.DisruptionsResponse
	if err := c.api.Get(ctx, path, params, &resp); err != nil {
		if f.RouteID > 0 && apperr.IsNotFound(err) {
			return nil, apperr.NotFound(op, "route %d not found", f.RouteID)
		}
		return nil, apperr.WithOp(err, op)
	}

	return models.FilterDisruptions(resp.Flatten(), f.RouteTypes), nil
}

func (c *RemoteClient) GetRouteTypes(ctx context.Context) ([]models.RouteTypeInfo, error) {
	var resp timetable.RouteTypesResponse
	if err := c.api.Get(ctx, c.api.Path("route_types"), nil, &resp); err != nil {
		return nil, apperr.WithOp(err, "get_route_types")
	}

	types := make([]models.RouteTypeInfo, 0, len(resp.RouteTypes))
	for _, rt := range resp.RouteTypes {
		types = append(types, rt.ToModel())
	}
	return types, nil
}

func (c *RemoteClient) RouteTypesDocument(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.api.GetRaw(ctx, c.api.Path("route_types"), nil)
	if err != nil {
		return nil, apperr.WithOp(err, "route_types_resource")
	}
	return raw, nil
}

func addRouteTypes(params url.Values, types []models.RouteType) {
	for _, rt := range types {
		params.Add("route_types", strconv.Itoa(int(rt)))
	}
}

func containsRouteType(types []models.RouteType, rt models.RouteType) bool {
	for _, t := range types {
		if t == rt {
			return true
		}
	}
	return false
}
