// Package ptvtest runs an in-process stand-in for the PTV Timetable API.
// It checks request signatures the way upstream does and answers from the
// fixtures in the timetable package.
package ptvtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/jusunglee/ptv-mcp-go/internal/timetable"
)

const (
	DevID  = "3000123"
	DevKey = "9c132d31-6a30-4cac-8d8b-8a1970834799"

	// KnownStopID is the only stop with departures
	KnownStopID = 1071
)

type response struct {
	status int
	body   string
}

// Server is a fake upstream
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []*url.URL
	overrides map[string]response
}

// NewServer starts a fake upstream; callers must Close it
func NewServer() *Server {
	s := &Server{overrides: make(map[string]response)}

	r := mux.NewRouter()
	r.HandleFunc("/v3/departures/route_type/{route_type}/stop/{stop_id}", s.handleDepartures).Methods("GET")
	r.HandleFunc("/v3/departures/route_type/{route_type}/stop/{stop_id}/route/{route_id}", s.handleDepartures).Methods("GET")
	r.HandleFunc("/v3/search/{term}", s.fixture(timetable.FixtureSearch)).Methods("GET")
	r.HandleFunc("/v3/routes", s.fixture(timetable.FixtureRoutes)).Methods("GET")
	r.HandleFunc("/v3/routes/{route_id}", s.handleRoute).Methods("GET")
	r.HandleFunc("/v3/disruptions", s.fixture(timetable.FixtureDisruptions)).Methods("GET")
	r.HandleFunc("/v3/disruptions/route/{route_id}", s.fixture(timetable.FixtureDisruptions)).Methods("GET")
	r.HandleFunc("/v3/route_types", s.fixture(timetable.FixtureRouteTypes)).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "No HTTP resource was found that matches the request URI")
	})
	r.Use(s.recordAndVerify)

	s.Server = httptest.NewServer(r)
	return s
}

// Override makes path answer with status and body instead of its fixture
func (s *Server) Override(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = response{status: status, body: body}
}

// Requests returns every request URL received so far
func (s *Server) Requests() []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*url.URL, len(s.requests))
	copy(result, s.requests)
	return result
}

// LastRequest returns the most recent request URL, or nil
func (s *Server) LastRequest() *url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) recordAndVerify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		u := *r.URL
		s.requests = append(s.requests, &u)
		override, overridden := s.overrides[r.URL.Path]
		s.mu.Unlock()

		if !validSignature(r) {
			writeMessage(w, http.StatusForbidden, "Forbidden resource")
			return
		}
		if overridden {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(override.status)
			w.Write([]byte(override.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validSignature recomputes the signature over everything before "&signature="
func validSignature(r *http.Request) bool {
	uri := r.RequestURI
	idx := strings.LastIndex(uri, "&signature=")
	if idx < 0 {
		return false
	}
	if r.URL.Query().Get("devid") != DevID {
		return false
	}
	return uri[idx+len("&signature="):] == timetable.Sign(DevKey, uri[:idx])
}

func (s *Server) fixture(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["stop_id"] != "1071" {
		writeMessage(w, http.StatusNotFound, "Stop not found")
		return
	}
	s.fixture(timetable.FixtureDepartures)(w, r)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["route_id"] != "6" {
		writeMessage(w, http.StatusNotFound, "Route not found")
		return
	}
	s.fixture(timetable.FixtureRoute)(w, r)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(timetable.ErrorResponse{
		Message: message,
		Status:  timetable.Status{Version: "3.0", Health: 1},
	})
}
