package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
	"github.com/jusunglee/ptv-mcp-go/pkg/ptv"
)

// Handler serves the adapter operations as plain JSON over HTTP
type Handler struct {
	client ptv.Client
	now    func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(client ptv.Client) *Handler {
	return &Handler{client: client, now: time.Now}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/healthz", h.handleHealth).Methods("GET")
	r.HandleFunc("/route-types", h.handleRouteTypes).Methods("GET")
	r.HandleFunc("/departures/{route_type}/{stop_id:[0-9]+}", h.handleDepartures).Methods("GET")
	r.HandleFunc("/stops/search/{term}", h.handleSearchStops).Methods("GET")
	r.HandleFunc("/routes", h.handleRoutes).Methods("GET")
	r.HandleFunc("/routes/{route_id:[0-9]+}", h.handleRoute).Methods("GET")
	r.HandleFunc("/disruptions", h.handleDisruptions).Methods("GET")
	r.HandleFunc("/disruptions/route/{route_id:[0-9]+}", h.handleRouteDisruptions).Methods("GET")
}

// Response wraps API responses
type Response struct {
	Data    any    `json:"data"`
	Updated string `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title": "ptv-mcp-go",
		"mcp":   "/mcp",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	cfg := h.client.Config()
	h.writeJSON(w, map[string]any{
		"status":             "ok",
		"api_version":        cfg.APIVersion,
		"dev_key_configured": cfg.KeyConfigured(),
	})
}

func (h *Handler) handleRouteTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.client.GetRouteTypes(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, types)
}

func (h *Handler) handleDepartures(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	routeType, err := models.ParseRouteType(vars["route_type"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	stopID, _ := strconv.Atoi(vars["stop_id"])

	q := models.DeparturesQuery{StopID: stopID, RouteType: routeType}
	if q.MaxResults, err = queryInt(r, "max_results"); err != nil {
		h.writeError(w, err)
		return
	}
	if q.RouteID, err = queryInt(r, "route_id"); err != nil {
		h.writeError(w, err)
		return
	}
	if s := r.URL.Query().Get("date_utc"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(w, apperr.Validation("", "date_utc must be an RFC 3339 timestamp, got %q", s))
			return
		}
		q.DateUTC = &t
	}

	departures, err := h.client.GetDepartures(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, departures)
}

func (h *Handler) handleSearchStops(w http.ResponseWriter, r *http.Request) {
	types, err := queryRouteTypes(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	stops, err := h.client.SearchStops(r.Context(), models.StopQuery{Name: mux.Vars(r)["term"], RouteTypes: types})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, stops)
}

func (h *Handler) handleRoutes(w http.ResponseWriter, r *http.Request) {
	types, err := queryRouteTypes(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	routes, err := h.client.GetRoutes(r.Context(), models.RouteFilter{
		RouteTypes: types,
		RouteName:  r.URL.Query().Get("route_name"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, routes)
}

func (h *Handler) handleRoute(w http.ResponseWriter, r *http.Request) {
	routeID, _ := strconv.Atoi(mux.Vars(r)["route_id"])

	routes, err := h.client.GetRoutes(r.Context(), models.RouteFilter{RouteID: routeID})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, routes)
}

func (h *Handler) handleDisruptions(w http.ResponseWriter, r *http.Request) {
	types, err := queryRouteTypes(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	disruptions, err := h.client.GetDisruptions(r.Context(), models.DisruptionFilter{
		RouteTypes: types,
		Status:     strings.ToLower(r.URL.Query().Get("disruption_status")),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, disruptions)
}

func (h *Handler) handleRouteDisruptions(w http.ResponseWriter, r *http.Request) {
	routeID, _ := strconv.Atoi(mux.Vars(r)["route_id"])

	disruptions, err := h.client.GetDisruptions(r.Context(), models.DisruptionFilter{
		RouteID: routeID,
		Status:  strings.ToLower(r.URL.Query().Get("disruption_status")),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, disruptions)
}

// queryInt reads an optional integer query parameter, 0 when absent
func queryInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validation("", "%s must be a whole number, got %q", key, s)
	}
	return n, nil
}

// queryRouteTypes accepts route_types=0,1 as well as repeated route_types parameters
func queryRouteTypes(r *http.Request) ([]models.RouteType, error) {
	var values []string
	for _, v := range r.URL.Query()["route_types"] {
		values = append(values, strings.Split(v, ",")...)
	}
	return models.ParseRouteTypes(values)
}

func (h *Handler) writeData(w http.ResponseWriter, data any) {
	h.writeJSON(w, Response{
		Data:    data,
		Updated: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindUpstream
	}

	if status >= http.StatusInternalServerError {
		log.Warn().Err(err).Int("status", status).Msg("Request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

// StatusFor maps an adapter error to the HTTP status returned to callers
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
