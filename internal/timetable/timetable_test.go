package timetable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
)

func TestSign(t *testing.T) {
	// HMAC-SHA1("key", "The quick brown fox jumps over the lazy dog")
	got := Sign("key", "The quick brown fox jumps over the lazy dog")
	want := "DE7C9B85B8B78AA6BC8A7A36F70A90701C9DB4D9"
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestPath(t *testing.T) {
	c := NewClient("", "", "id", "key", 0)

	tests := []struct {
		segments []string
		expected string
	}{
		{[]string{"route_types"}, "/v3/route_types"},
		{[]string{"search", "Flinders Street"}, "/v3/search/Flinders%20Street"},
		{[]string{"search", "a/b"}, "/v3/search/a%2Fb"},
		{[]string{"departures", "route_type", "0", "stop", "1071"}, "/v3/departures/route_type/0/stop/1071"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := c.Path(tt.segments...); got != tt.expected {
				t.Errorf("Path(%v) = %q, want %q", tt.segments, got, tt.expected)
			}
		})
	}
}

func TestSignedURL(t *testing.T) {
	c := NewClient("https://example.test/", "v3", "3000123", "secret", 0)

	params := url.Values{}
	params.Set("max_results", "5")
	signed := c.SignedURL("/v3/departures/route_type/0/stop/1071", params)

	prefix := "https://example.test/v3/departures/route_type/0/stop/1071?devid=3000123&max_results=5&signature="
	if !strings.HasPrefix(signed, prefix) {
		t.Fatalf("SignedURL() = %s, want prefix %s", signed, prefix)
	}

	expectedSig := Sign("secret", "/v3/departures/route_type/0/stop/1071?devid=3000123&max_results=5")
	if !strings.HasSuffix(signed, expectedSig) {
		t.Errorf("signature mismatch: %s", signed)
	}

	if params.Get("devid") != "" {
		t.Error("SignedURL must not modify the caller's params")
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "v3", "3000123", "secret", 2*time.Second)
}

func TestGet(t *testing.T) {
	var gotURI string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		w.Write([]byte(FixtureRouteTypes))
	})

	var resp RouteTypesResponse
	if err := c.Get(context.Background(), c.Path("route_types"), nil, &resp); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(resp.RouteTypes) != 5 {
		t.Errorf("Expected 5 route types, got %d", len(resp.RouteTypes))
	}

	idx := strings.LastIndex(gotURI, "&signature=")
	if idx < 0 {
		t.Fatalf("request carried no signature: %s", gotURI)
	}
	if gotURI[idx+len("&signature="):] != Sign("secret", gotURI[:idx]) {
		t.Error("signature does not cover the request as received")
	}
}

func TestGetErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{"not found", http.StatusNotFound, `{"message":"Stop not found"}`, apperr.IsNotFound, "Stop not found"},
		{"not found without body", http.StatusNotFound, ``, apperr.IsNotFound, "resource not found"},
		{"forbidden", http.StatusForbidden, `{"message":"Forbidden resource"}`, apperr.IsUpstream, "HTTP 403: Forbidden resource"},
		{"bad request", http.StatusBadRequest, `{"message":"Invalid route_type"}`, apperr.IsUpstream, "HTTP 400: Invalid route_type"},
		{"server error", http.StatusInternalServerError, `oops`, apperr.IsUpstream, "HTTP 500"},
		{"malformed json", http.StatusOK, `{"route_types": [`, apperr.IsUpstream, "malformed response body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			var resp RouteTypesResponse
			err := c.Get(context.Background(), c.Path("route_types"), nil, &resp)
			if !tt.check(err) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			if Message(err) != tt.message {
				t.Errorf("Message() = %q, want %q", Message(err), tt.message)
			}
			if StatusCode(err) != tt.status {
				t.Errorf("StatusCode() = %d, want %d", StatusCode(err), tt.status)
			}
		})
	}
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(FixtureRouteTypes))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "v3", "id", "key", 20*time.Millisecond)
	var resp RouteTypesResponse
	err := c.Get(context.Background(), c.Path("route_types"), nil, &resp)
	if !apperr.IsUpstream(err) {
		t.Errorf("expected upstream error on timeout, got %v", err)
	}
}

func TestGetRaw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(FixtureRouteTypes))
	})

	raw, err := c.GetRaw(context.Background(), c.Path("route_types"), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(raw) != FixtureRouteTypes {
		t.Error("GetRaw should return the body untouched")
	}

	bad := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	})
	if _, err := bad.GetRaw(context.Background(), "/v3/route_types", nil); !apperr.IsUpstream(err) {
		t.Errorf("expected upstream error for non-JSON body, got %v", err)
	}
}

func TestDepartureToModel(t *testing.T) {
	scheduled := time.Date(2025, 8, 31, 14, 3, 0, 0, time.UTC)
	platform := "2"
	d := Departure{
		StopID:                1071,
		RouteID:               2,
		RunID:                 948201,
		ScheduledDepartureUTC: &scheduled,
		PlatformNumber:        &platform,
	}

	m := d.ToModel(models.Train)
	if m.RunRef != "948201" {
		t.Errorf("Expected run ref from run id, got %q", m.RunRef)
	}
	if !m.ScheduledUTC.Equal(scheduled) {
		t.Errorf("Expected scheduled %v, got %v", scheduled, m.ScheduledUTC)
	}
	if m.Platform != "2" {
		t.Errorf("Expected platform 2, got %q", m.Platform)
	}
	if m.DisruptionIDs == nil {
		t.Error("DisruptionIDs should be an empty slice, not nil")
	}
	if m.RouteType != models.Train {
		t.Errorf("Expected route type Train, got %v", m.RouteType)
	}
}

func TestFlatten(t *testing.T) {
	resp := DisruptionsResponse{
		Disruptions: map[string][]Disruption{
			"zeta_new":    {{DisruptionID: 9}},
			"metro_tram":  {{DisruptionID: 3}},
			"general":     {{DisruptionID: 1}},
			"metro_train": {{DisruptionID: 2}, {DisruptionID: 1}},
			"alpha_new":   {{DisruptionID: 8}},
		},
	}

	result := resp.Flatten()

	expected := []struct {
		id       int64
		category string
	}{
		{1, "general"},
		{2, "metro_train"},
		{1, "metro_train"},
		{3, "metro_tram"},
		{8, "alpha_new"},
		{9, "zeta_new"},
	}
	if len(result) != len(expected) {
		t.Fatalf("Expected %d disruptions, got %d", len(expected), len(result))
	}
	for i, e := range expected {
		if result[i].ID != e.id || result[i].Category != e.category {
			t.Errorf("Disruption %d: expected %d/%s, got %d/%s", i, e.id, e.category, result[i].ID, result[i].Category)
		}
	}

	if len((DisruptionsResponse{}).Flatten()) != 0 {
		t.Error("Empty response should flatten to nothing")
	}
}
