package timetable

// Canned upstream bodies for tests and the fake server in ptvtest
// Shapes follow real /v3 responses; ids use real Melbourne stops and routes

// FixtureDepartures is out of scheduled order on purpose
const FixtureDepartures = `{
  "departures": [
    {
      "stop_id": 1071,
      "route_id": 6,
      "run_id": 951012,
      "run_ref": "951012",
      "direction_id": 1,
      "disruption_ids": [],
      "scheduled_departure_utc": "2025-08-31T14:12:00Z",
      "estimated_departure_utc": null,
      "at_platform": false,
      "platform_number": "6",
      "flags": "",
      "departure_sequence": 0
    },
    {
      "stop_id": 1071,
      "route_id": 2,
      "run_id": 948201,
      "run_ref": "948201",
      "direction_id": 1,
      "disruption_ids": [312544],
      "scheduled_departure_utc": "2025-08-31T14:03:00Z",
      "estimated_departure_utc": "2025-08-31T14:05:00Z",
      "at_platform": true,
      "platform_number": "2",
      "flags": "S_WCA",
      "departure_sequence": 0
    },
    {
      "stop_id": 1071,
      "route_id": 14,
      "run_id": 0,
      "run_ref": "TEST-7",
      "direction_id": 6,
      "disruption_ids": [],
      "scheduled_departure_utc": "2025-08-31T14:07:00Z",
      "estimated_departure_utc": null,
      "at_platform": false,
      "platform_number": null,
      "flags": "",
      "departure_sequence": 0
    }
  ],
  "status": {"version": "3.0", "health": 1}
}`

// FixtureSearch contains Flinders Street twice (train and tram), as upstream does
const FixtureSearch = `{
  "stops": [
    {
      "stop_distance": 0,
      "stop_suburb": "Melbourne City",
      "stop_name": "Flinders Street Station",
      "stop_id": 1071,
      "route_type": 0,
      "stop_latitude": -37.8183,
      "stop_longitude": 144.966965,
      "stop_sequence": 0
    },
    {
      "stop_distance": 0,
      "stop_suburb": "Melbourne City",
      "stop_name": "Flinders Street Station/Elizabeth St #1",
      "stop_id": 1071,
      "route_type": 1,
      "stop_latitude": -37.8179,
      "stop_longitude": 144.9646,
      "stop_sequence": 0
    }
  ],
  "routes": [],
  "outlets": [],
  "status": {"version": "3.0", "health": 1}
}`

const FixtureRoutes = `{
  "routes": [
    {
      "route_service_status": {"description": "Good Service", "timestamp": "2025-08-31T13:50:00Z"},
      "route_type": 0,
      "route_id": 6,
      "route_name": "Frankston",
      "route_number": "",
      "route_gtfs_id": "2-FKN"
    },
    {
      "route_service_status": {"description": "Minor Delays", "timestamp": "2025-08-31T13:50:00Z"},
      "route_type": 1,
      "route_id": 1041,
      "route_name": "East Coburg - South Melbourne Beach",
      "route_number": "1",
      "route_gtfs_id": "3-1"
    },
    {
      "route_type": 2,
      "route_id": 13024,
      "route_name": "Flinders Street Station - Port Melbourne",
      "route_number": "235",
      "route_gtfs_id": "4-235"
    }
  ],
  "status": {"version": "3.0", "health": 1}
}`

const FixtureRoute = `{
  "route": {
    "route_service_status": {"description": "Good Service", "timestamp": "2025-08-31T13:50:00Z"},
    "route_type": 0,
    "route_id": 6,
    "route_name": "Frankston",
    "route_number": "",
    "route_gtfs_id": "2-FKN"
  },
  "status": {"version": "3.0", "health": 1}
}`

// FixtureDisruptions has a tram disruption, a train disruption and a general one with no routes
const FixtureDisruptions = `{
  "disruptions": {
    "general": [
      {
        "disruption_id": 100,
        "title": "Website maintenance",
        "url": "https://www.ptv.vic.gov.au/live-travel-updates/",
        "description": "Journey planner may be unavailable overnight.",
        "disruption_status": "Current",
        "disruption_type": "Service Information",
        "published_on": "2025-08-30T00:00:00Z",
        "last_updated": "2025-08-30T00:00:00Z",
        "from_date": "2025-08-30T00:00:00Z",
        "to_date": null,
        "routes": [],
        "stops": []
      }
    ],
    "metro_train": [
      {
        "disruption_id": 312544,
        "title": "Frankston line: Delays up to 10 minutes",
        "url": "https://www.ptv.vic.gov.au/live-travel-updates/",
        "description": "Delays due to an equipment fault near Caulfield.",
        "disruption_status": "Current",
        "disruption_type": "Minor Delays",
        "published_on": "2025-08-31T13:40:00Z",
        "last_updated": "2025-08-31T13:45:00Z",
        "from_date": "2025-08-31T13:40:00Z",
        "to_date": "2025-08-31T16:00:00Z",
        "routes": [
          {"route_type": 0, "route_id": 6, "route_name": "Frankston", "route_number": "", "route_gtfs_id": "2-FKN", "direction": null}
        ],
        "stops": [
          {"stop_id": 1071, "stop_name": "Flinders Street Station"}
        ]
      }
    ],
    "metro_tram": [
      {
        "disruption_id": 401122,
        "title": "Route 1: Diversion",
        "url": "https://www.ptv.vic.gov.au/live-travel-updates/",
        "description": "Trams are diverting via William St due to works.",
        "disruption_status": "Planned",
        "disruption_type": "Planned Works",
        "published_on": "2025-08-25T00:00:00Z",
        "last_updated": "2025-08-29T00:00:00Z",
        "from_date": "2025-09-02T21:00:00Z",
        "to_date": "2025-09-03T05:00:00Z",
        "routes": [
          {"route_type": 1, "route_id": 1041, "route_name": "East Coburg - South Melbourne Beach", "route_number": "1", "route_gtfs_id": "3-1", "direction": null}
        ],
        "stops": []
      }
    ],
    "metro_bus": [],
    "regional_train": []
  },
  "status": {"version": "3.0", "health": 1}
}`

const FixtureRouteTypes = `{
  "route_types": [
    {"route_type_name": "Train", "route_type": 0},
    {"route_type_name": "Tram", "route_type": 1},
    {"route_type_name": "Bus", "route_type": 2},
    {"route_type_name": "Vline", "route_type": 3},
    {"route_type_name": "Night Bus", "route_type": 4}
  ],
  "status": {"version": "3.0", "health": 1}
}`
