package models

import (
	"sort"
	"time"
)

// Departure represents one departure from a stop
// Every field is copied verbatim from the upstream departure record
type Departure struct {
	StopID        int        `json:"stop_id"`
	RouteID       int        `json:"route_id"`
	RouteType     RouteType  `json:"route_type"`
	RunRef        string     `json:"run_ref"`
	DirectionID   int        `json:"direction_id"`
	DisruptionIDs []int64    `json:"disruption_ids"`
	ScheduledUTC  time.Time  `json:"scheduled_departure_utc"`
	EstimatedUTC  *time.Time `json:"estimated_departure_utc,omitempty"`
	AtPlatform    bool       `json:"at_platform"`
	Platform      string     `json:"platform_number,omitempty"`
	Flags         string     `json:"flags,omitempty"`
	Sequence      int        `json:"departure_sequence"`
}

// Disrupted reports whether upstream attached any disruption to this departure
func (d Departure) Disrupted() bool {
	return len(d.DisruptionIDs) > 0
}

// Stop represents a physical boarding location returned by a search
type Stop struct {
	ID        int       `json:"stop_id"`
	Name      string    `json:"stop_name"`
	Suburb    string    `json:"stop_suburb,omitempty"`
	RouteType RouteType `json:"route_type"`
	Latitude  float64   `json:"stop_latitude"`
	Longitude float64   `json:"stop_longitude"`
	Sequence  int       `json:"stop_sequence,omitempty"`
}

// ServiceStatus is the route-level status upstream attaches to a route
type ServiceStatus struct {
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// Route represents a named line belonging to one transport mode
type Route struct {
	ID            int            `json:"route_id"`
	Name          string         `json:"route_name"`
	Number        string         `json:"route_number,omitempty"`
	RouteType     RouteType      `json:"route_type"`
	GTFSID        string         `json:"route_gtfs_id,omitempty"`
	ServiceStatus *ServiceStatus `json:"route_service_status,omitempty"`
}

// AffectedRoute is a route listed on a disruption
type AffectedRoute struct {
	RouteType RouteType `json:"route_type"`
	RouteID   int       `json:"route_id"`
	Name      string    `json:"route_name"`
	Number    string    `json:"route_number,omitempty"`
}

// AffectedStop is a stop listed on a disruption
type AffectedStop struct {
	StopID int    `json:"stop_id"`
	Name   string `json:"stop_name"`
}

// Disruption represents an authority-issued service alert
type Disruption struct {
	ID          int64           `json:"disruption_id"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description"`
	Status      string          `json:"disruption_status"`
	Type        string          `json:"disruption_type"`
	PublishedOn *time.Time      `json:"published_on,omitempty"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
	From        *time.Time      `json:"from_date,omitempty"`
	To          *time.Time      `json:"to_date,omitempty"`
	Routes      []AffectedRoute `json:"routes"`
	Stops       []AffectedStop  `json:"stops"`
}

// AffectsRouteType reports whether any affected route belongs to one of the given modes
func (d Disruption) AffectsRouteType(types ...RouteType) bool {
	for _, r := range d.Routes {
		for _, rt := range types {
			if r.RouteType == rt {
				return true
			}
		}
	}
	return false
}

// RouteTypeInfo is one transport mode as described by upstream
type RouteTypeInfo struct {
	RouteType RouteType `json:"route_type"`
	Name      string    `json:"route_type_name"`
}

// SortDepartures orders departures by scheduled time, keeping upstream order for ties
func SortDepartures(departures []Departure) {
	sort.SliceStable(departures, func(i, j int) bool {
		return departures[i].ScheduledUTC.Before(departures[j].ScheduledUTC)
	})
}

// FilterDisruptions keeps disruptions affecting at least one of the given modes
// An empty mode list keeps everything
func FilterDisruptions(disruptions []Disruption, types []RouteType) []Disruption {
	if len(types) == 0 {
		return disruptions
	}

	result := make([]Disruption, 0, len(disruptions))
	for _, d := range disruptions {
		if d.AffectsRouteType(types...) {
			result = append(result, d)
		}
	}
	return result
}
