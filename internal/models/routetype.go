package models

import (
	"strconv"
	"strings"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
)

// RouteType is the PTV transport mode
type RouteType int

const (
	Train    RouteType = 0
	Tram     RouteType = 1
	Bus      RouteType = 2
	VLine    RouteType = 3
	NightBus RouteType = 4
)

var routeTypeNames = [...]string{
	Train:    "Train",
	Tram:     "Tram",
	Bus:      "Bus",
	VLine:    "V/Line",
	NightBus: "Night Bus",
}

// AllRouteTypes returns the five transport modes in id order
func AllRouteTypes() []RouteType {
	return []RouteType{Train, Tram, Bus, VLine, NightBus}
}

// RouteTypeNames maps each mode id to its display name
func RouteTypeNames() map[int]string {
	names := make(map[int]string, len(routeTypeNames))
	for id, name := range routeTypeNames {
		names[id] = name
	}
	return names
}

func (r RouteType) Valid() bool {
	return r >= Train && r <= NightBus
}

func (r RouteType) String() string {
	if !r.Valid() {
		return "Type " + strconv.Itoa(int(r))
	}
	return routeTypeNames[r]
}

// RouteTypeFromInt converts an upstream or caller supplied id
func RouteTypeFromInt(id int) (RouteType, error) {
	rt := RouteType(id)
	if !rt.Valid() {
		return 0, apperr.Validation("", "invalid route type %d: must be 0-4 (0=Train, 1=Tram, 2=Bus, 3=V/Line, 4=Night Bus)", id)
	}
	return rt, nil
}

// ParseRouteType accepts either the numeric id or a mode name, case-insensitively
func ParseRouteType(s string) (RouteType, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		return RouteTypeFromInt(id)
	}

	switch strings.ToLower(strings.NewReplacer(" ", "", "/", "", "-", "", "_", "").Replace(s)) {
	case "train", "metrotrain":
		return Train, nil
	case "tram":
		return Tram, nil
	case "bus":
		return Bus, nil
	case "vline", "regionaltrain":
		return VLine, nil
	case "nightbus":
		return NightBus, nil
	}
	return 0, apperr.Validation("", "invalid route type %q: must be one of Train, Tram, Bus, V/Line, Night Bus", s)
}

// ParseRouteTypes parses every element, failing on the first invalid one
func ParseRouteTypes(values []string) ([]RouteType, error) {
	types := make([]RouteType, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		rt, err := ParseRouteType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, nil
}
