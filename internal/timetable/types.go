package timetable

import (
	"sort"
	"strconv"
	"time"

	"github.com/jusunglee/ptv-mcp-go/internal/models"
)

// Status is the health block upstream appends to every response
type Status struct {
	Version string `json:"version"`
	Health  int    `json:"health"`
}

// ErrorResponse is the body upstream sends with 4xx/5xx responses
type ErrorResponse struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
}

type DeparturesResponse struct {
	Departures []Departure `json:"departures"`
	Status     Status      `json:"status"`
}

type Departure struct {
	StopID                int        `json:"stop_id"`
	RouteID               int        `json:"route_id"`
	RunID                 int        `json:"run_id"`
	RunRef                string     `json:"run_ref"`
	DirectionID           int        `json:"direction_id"`
	DisruptionIDs         []int64    `json:"disruption_ids"`
	ScheduledDepartureUTC *time.Time `json:"scheduled_departure_utc"`
	EstimatedDepartureUTC *time.Time `json:"estimated_departure_utc"`
	AtPlatform            bool       `json:"at_platform"`
	PlatformNumber        *string    `json:"platform_number"`
	Flags                 string     `json:"flags"`
	DepartureSequence     int        `json:"departure_sequence"`
}

type SearchResponse struct {
	Stops  []Stop  `json:"stops"`
	Routes []Route `json:"routes"`
	Status Status  `json:"status"`
}

type Stop struct {
	StopID        int     `json:"stop_id"`
	StopName      string  `json:"stop_name"`
	StopSuburb    string  `json:"stop_suburb"`
	RouteType     int     `json:"route_type"`
	StopLatitude  float64 `json:"stop_latitude"`
	StopLongitude float64 `json:"stop_longitude"`
	StopSequence  int     `json:"stop_sequence"`
}

type RoutesResponse struct {
	Routes []Route `json:"routes"`
	Status Status  `json:"status"`
}

type RouteResponse struct {
	Route  *Route `json:"route"`
	Status Status `json:"status"`
}

type Route struct {
	RouteID            int                 `json:"route_id"`
	RouteName          string              `json:"route_name"`
	RouteNumber        string              `json:"route_number"`
	RouteType          int                 `json:"route_type"`
	RouteGTFSID        string              `json:"route_gtfs_id"`
	RouteServiceStatus *RouteServiceStatus `json:"route_service_status"`
}

type RouteServiceStatus struct {
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
}

// DisruptionsResponse groups disruptions under category keys such as "metro_train" or "general"
type DisruptionsResponse struct {
	Disruptions map[string][]Disruption `json:"disruptions"`
	Status      Status                  `json:"status"`
}

type Disruption struct {
	DisruptionID     int64             `json:"disruption_id"`
	Title            string            `json:"title"`
	URL              string            `json:"url"`
	Description      string            `json:"description"`
	DisruptionStatus string            `json:"disruption_status"`
	DisruptionType   string            `json:"disruption_type"`
	PublishedOn      *time.Time        `json:"published_on"`
	LastUpdated      *time.Time        `json:"last_updated"`
	FromDate         *time.Time        `json:"from_date"`
	ToDate           *time.Time        `json:"to_date"`
	Routes           []DisruptionRoute `json:"routes"`
	Stops            []DisruptionStop  `json:"stops"`
}

type DisruptionRoute struct {
	RouteType   int    `json:"route_type"`
	RouteID     int    `json:"route_id"`
	RouteName   string `json:"route_name"`
	RouteNumber string `json:"route_number"`
}

type DisruptionStop struct {
	StopID   int    `json:"stop_id"`
	StopName string `json:"stop_name"`
}

type RouteTypesResponse struct {
	RouteTypes []RouteType `json:"route_types"`
	Status     Status      `json:"status"`
}

type RouteType struct {
	RouteTypeName string `json:"route_type_name"`
	RouteType     int    `json:"route_type"`
}

// DisruptionCategories is the order categories are flattened in
// Keys upstream adds later are appended alphabetically
var DisruptionCategories = []string{
	"general",
	"metro_train",
	"metro_tram",
	"metro_bus",
	"regional_train",
	"regional_coach",
	"regional_bus",
	"school_bus",
	"telebus",
	"night_bus",
	"ferry",
	"interstate_train",
	"skybus",
	"taxi",
}

// ToModel converts a departure; upstream does not echo the mode so the caller supplies it
func (d Departure) ToModel(rt models.RouteType) models.Departure {
	dep := models.Departure{
		StopID:        d.StopID,
		RouteID:       d.RouteID,
		RouteType:     rt,
		RunRef:        d.RunRef,
		DirectionID:   d.DirectionID,
		DisruptionIDs: d.DisruptionIDs,
		EstimatedUTC:  d.EstimatedDepartureUTC,
		AtPlatform:    d.AtPlatform,
		Flags:         d.Flags,
		Sequence:      d.DepartureSequence,
	}
	if dep.RunRef == "" && d.RunID != 0 {
		dep.RunRef = strconv.Itoa(d.RunID)
	}
	if dep.DisruptionIDs == nil {
		dep.DisruptionIDs = []int64{}
	}
	if d.ScheduledDepartureUTC != nil {
		dep.ScheduledUTC = *d.ScheduledDepartureUTC
	}
	if d.PlatformNumber != nil {
		dep.Platform = *d.PlatformNumber
	}
	return dep
}

func (s Stop) ToModel() models.Stop {
	return models.Stop{
		ID:        s.StopID,
		Name:      s.StopName,
		Suburb:    s.StopSuburb,
		RouteType: models.RouteType(s.RouteType),
		Latitude:  s.StopLatitude,
		Longitude: s.StopLongitude,
		Sequence:  s.StopSequence,
	}
}

func (r Route) ToModel() models.Route {
	route := models.Route{
		ID:        r.RouteID,
		Name:      r.RouteName,
		Number:    r.RouteNumber,
		RouteType: models.RouteType(r.RouteType),
		GTFSID:    r.RouteGTFSID,
	}
	if r.RouteServiceStatus != nil {
		route.ServiceStatus = &models.ServiceStatus{
			Description: r.RouteServiceStatus.Description,
			Timestamp:   r.RouteServiceStatus.Timestamp,
		}
	}
	return route
}

func (d Disruption) ToModel(category string) models.Disruption {
	dis := models.Disruption{
		ID:          d.DisruptionID,
		Category:    category,
		Title:       d.Title,
		URL:         d.URL,
		Description: d.Description,
		Status:      d.DisruptionStatus,
		Type:        d.DisruptionType,
		PublishedOn: d.PublishedOn,
		LastUpdated: d.LastUpdated,
		From:        d.FromDate,
		To:          d.ToDate,
		Routes:      make([]models.AffectedRoute, 0, len(d.Routes)),
		Stops:       make([]models.AffectedStop, 0, len(d.Stops)),
	}
	for _, r := range d.Routes {
		dis.Routes = append(dis.Routes, models.AffectedRoute{
			RouteType: models.RouteType(r.RouteType),
			RouteID:   r.RouteID,
			Name:      r.RouteName,
			Number:    r.RouteNumber,
		})
	}
	for _, s := range d.Stops {
		dis.Stops = append(dis.Stops, models.AffectedStop{StopID: s.StopID, Name: s.StopName})
	}
	return dis
}

func (r RouteType) ToModel() models.RouteTypeInfo {
	return models.RouteTypeInfo{RouteType: models.RouteType(r.RouteType), Name: r.RouteTypeName}
}

// Flatten lists every disruption in category order
// A disruption filed under several categories appears once per category
func (r DisruptionsResponse) Flatten() []models.Disruption {
	var extra []string
	known := make(map[string]bool, len(DisruptionCategories))
	for _, c := range DisruptionCategories {
		known[c] = true
	}
	for c := range r.Disruptions {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)

	result := []models.Disruption{}
	for _, category := range append(append([]string{}, DisruptionCategories...), extra...) {
		for _, d := range r.Disruptions[category] {
			result = append(result, d.ToModel(category))
		}
	}
	return result
}
