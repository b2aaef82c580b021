package mcpserver

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
)

// Assistants send numbers as JSON numbers, numeric strings or (for modes) names;
// these helpers accept all three and report anything else as a validation error

type arguments map[string]any

func (a arguments) has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

func (a arguments) int(key string, fallback int) (int, error) {
	if !a.has(key) {
		return fallback, nil
	}

	switch v := a[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, apperr.Validation("", "%s must be a whole number, got %v", key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, apperr.Validation("", "%s must be a whole number, got %s", key, v)
		}
		return int(n), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return fallback, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, apperr.Validation("", "%s must be a whole number, got %q", key, v)
		}
		return n, nil
	}
	return 0, apperr.Validation("", "%s must be a number, got %T", key, a[key])
}

func (a arguments) requiredInt(key string) (int, error) {
	if !a.has(key) {
		return 0, apperr.Validation("", "%s is required", key)
	}
	return a.int(key, 0)
}

func (a arguments) string(key string) (string, error) {
	if !a.has(key) {
		return "", nil
	}
	s, ok := a[key].(string)
	if !ok {
		return "", apperr.Validation("", "%s must be a string, got %T", key, a[key])
	}
	return strings.TrimSpace(s), nil
}

func (a arguments) requiredString(key string) (string, error) {
	s, err := a.string(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", apperr.Validation("", "%s is required", key)
	}
	return s, nil
}

// routeType reads a single mode given as an id or a name
func (a arguments) routeType(key string, fallback models.RouteType) (models.RouteType, error) {
	if !a.has(key) {
		return fallback, nil
	}
	if s, ok := a[key].(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback, nil
		}
		return models.ParseRouteType(s)
	}

	id, err := a.int(key, int(fallback))
	if err != nil {
		return 0, err
	}
	return models.RouteTypeFromInt(id)
}

// routeTypes reads a list of modes; a lone value is treated as a one-element list
func (a arguments) routeTypes(key string) ([]models.RouteType, error) {
	if !a.has(key) {
		return nil, nil
	}

	var values []any
	switch v := a[key].(type) {
	case []any:
		values = v
	case []int:
		for _, n := range v {
			values = append(values, n)
		}
	case []string:
		for _, s := range v {
			values = append(values, s)
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			values = append(values, part)
		}
	default:
		values = []any{v}
	}

	types := make([]models.RouteType, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		rt, err := arguments{key: v}.routeType(key, 0)
		if err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, nil
}

// time reads an ISO 8601 / RFC 3339 timestamp
func (a arguments) time(key string) (*time.Time, error) {
	s, err := a.string(key)
	if err != nil || s == "" {
		return nil, err
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperr.Validation("", "%s must be an ISO 8601 UTC timestamp such as 2025-08-31T14:00:00Z, got %q", key, s)
}

// describeArgs renders arguments in key order for debug logs
func describeArgs(a arguments) string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, a[k]))
	}
	return strings.Join(parts, " ")
}
