package mcpserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/jusunglee/ptv-mcp-go/internal/models"
)

// Display caps for the text summaries; the JSON block always carries everything
const (
	maxStopsShown             = 10
	maxRoutesShown            = 20
	maxDisruptionsPerCategory = 5
	maxDescriptionLen         = 200
)

func formatDepartures(q models.DeparturesQuery, departures []models.Departure) string {
	if len(departures) == 0 {
		return "No departures found for this stop."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Departures from stop %d (%s):\n\n", q.StopID, q.RouteType)
	for _, d := range departures {
		var when string
		if d.EstimatedUTC != nil {
			when = "Est: " + d.EstimatedUTC.UTC().Format(time.RFC3339)
		} else {
			when = "Sch: " + d.ScheduledUTC.UTC().Format(time.RFC3339)
		}

		fmt.Fprintf(&b, "• Route %d - %s", d.RouteID, when)
		if d.Platform != "" {
			fmt.Fprintf(&b, " Platform %s", d.Platform)
		}
		if d.Disrupted() {
			b.WriteString(" [disrupted]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatStops(term string, stops []models.Stop) string {
	if len(stops) == 0 {
		return fmt.Sprintf("No stops found matching '%s'.", term)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stops matching '%s':\n\n", term)
	for i, s := range stops {
		if i == maxStopsShown {
			fmt.Fprintf(&b, "... and %d more\n", len(stops)-maxStopsShown)
			break
		}
		fmt.Fprintf(&b, "• %s (ID: %d) - %s", s.Name, s.ID, s.RouteType)
		if s.Suburb != "" {
			fmt.Fprintf(&b, ", %s", s.Suburb)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatRoutes(routes []models.Route) string {
	if len(routes) == 0 {
		return "No routes found."
	}

	var b strings.Builder
	b.WriteString("Available routes:\n\n")
	for i, r := range routes {
		if i == maxRoutesShown {
			fmt.Fprintf(&b, "... and %d more\n", len(routes)-maxRoutesShown)
			break
		}
		fmt.Fprintf(&b, "• %s (ID: %d) - %s", r.Name, r.ID, r.RouteType)
		if r.ServiceStatus != nil && r.ServiceStatus.Description != "" {
			fmt.Fprintf(&b, " [%s]", r.ServiceStatus.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatDisruptions groups disruptions by their upstream category, keeping first-seen order
func formatDisruptions(disruptions []models.Disruption) string {
	if len(disruptions) == 0 {
		return "No current disruptions found."
	}

	var categories []string
	grouped := make(map[string][]models.Disruption)
	for _, d := range disruptions {
		if _, ok := grouped[d.Category]; !ok {
			categories = append(categories, d.Category)
		}
		grouped[d.Category] = append(grouped[d.Category], d)
	}

	var b strings.Builder
	b.WriteString("Current Disruptions:\n\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "%s Disruptions:\n", categoryTitle(category))
		for i, d := range grouped[category] {
			if i == maxDisruptionsPerCategory {
				break
			}
			b.WriteString("• " + d.Title)
			if d.Status != "" {
				fmt.Fprintf(&b, " (%s)", d.Status)
			}
			b.WriteString("\n")
			if d.Description != "" {
				fmt.Fprintf(&b, "  %s\n", truncate(d.Description, maxDescriptionLen))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatRouteTypes(types []models.RouteTypeInfo) string {
	var b strings.Builder
	b.WriteString("Available Transport Modes:\n\n")
	for _, rt := range types {
		fmt.Fprintf(&b, "• %s (ID: %d)\n", rt.Name, int(rt.RouteType))
	}
	return b.String()
}

// categoryTitle turns "metro_train" into "Metro Train"
func categoryTitle(category string) string {
	if category == "" {
		return "Other"
	}
	words := strings.Fields(strings.ReplaceAll(category, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
