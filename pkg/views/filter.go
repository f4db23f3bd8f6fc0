package views

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/travigo/nextbus/pkg/tfl"
	"golang.org/x/exp/slices"
)

// ParseRoutes splits a comma separated route filter into lower cased, trimmed
// route names. Blank entries are dropped so "" and " , " mean no filter.
func ParseRoutes(raw string) []string {
	var routes []string

	for _, route := range strings.Split(raw, ",") {
		route = strings.ToLower(strings.TrimSpace(route))
		if route != "" && !slices.Contains(routes, route) {
			routes = append(routes, route)
		}
	}

	return routes
}

// FilterByRoutes keeps the arrivals whose line name matches one of routes,
// ignoring case and surrounding whitespace. An empty routes list keeps everything.
// The input slice is never modified.
func FilterByRoutes(arrivals []tfl.Arrival, routes []string) []tfl.Arrival {
	if len(routes) == 0 {
		return slices.Clone(arrivals)
	}

	filtered := make([]tfl.Arrival, 0, len(arrivals))
	for _, arrival := range arrivals {
		lineName := strings.ToLower(strings.TrimSpace(arrival.LineName))

		if slices.Contains(routes, lineName) {
			filtered = append(filtered, arrival)
		}
	}

	return filtered
}

// SortBySoonest orders arrivals by time to station, keeping the original order for ties
func SortBySoonest(arrivals []tfl.Arrival) {
	slices.SortStableFunc(arrivals, func(a, b tfl.Arrival) int {
		return cmp.Compare(a.TimeToStation, b.TimeToStation)
	})
}

// NoArrivalsError is returned by NextArrivals when nothing is left after filtering
type NoArrivalsError struct {
	StopID string
	Routes string
}

func (e *NoArrivalsError) Error() string {
	if e.Routes == "" {
		return fmt.Sprintf("No upcoming buses found for stop %s", e.StopID)
	}

	return fmt.Sprintf("No upcoming buses found for stop %s on route %s", e.StopID, e.Routes)
}

// NextArrivals filters arrivals by the raw route filter and sorts them soonest first
func NextArrivals(arrivals []tfl.Arrival, stopID string, rawRoutes string) ([]tfl.Arrival, error) {
	routes := ParseRoutes(rawRoutes)
	filtered := FilterByRoutes(arrivals, routes)

	if len(filtered) == 0 {
		noArrivals := &NoArrivalsError{StopID: stopID}
		if len(routes) > 0 {
			noArrivals.Routes = rawRoutes
		}

		return nil, noArrivals
	}

	SortBySoonest(filtered)

	return filtered, nil
}
