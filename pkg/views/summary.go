package views

import (
	"github.com/travigo/nextbus/pkg/tfl"
)

const DefaultSummaryLimit = 100

type Summary struct {
	StopID      string    `json:"stopId"`
	StopName    string    `json:"stopName,omitempty"`
	LastUpdated string    `json:"lastUpdated,omitempty"`
	Services    []Service `json:"services"`
}

type Service struct {
	Route       string `json:"route"`
	Destination string `json:"destination"`
	Minutes     int64  `json:"minutes"`
}

// Summarise builds the compact view of the soonest arrivals. The stop details come
// from the soonest arrival itself; when the filter leaves nothing the configured
// stop ID is used and the services list is empty rather than an error.
func Summarise(arrivals []tfl.Arrival, stopID string, rawRoutes string, limit int) Summary {
	filtered := FilterByRoutes(arrivals, ParseRoutes(rawRoutes))
	SortBySoonest(filtered)

	if limit < 0 {
		limit = 0
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	summary := Summary{
		StopID:   stopID,
		Services: make([]Service, 0, len(filtered)),
	}

	if len(filtered) > 0 {
		summary.StopID = filtered[0].NaptanID
		summary.StopName = filtered[0].StationName
		summary.LastUpdated = filtered[0].Timestamp
	}

	for _, arrival := range filtered {
		summary.Services = append(summary.Services, Service{
			Route:       arrival.LineName,
			Destination: arrival.DestinationName,
			Minutes:     MinutesUntil(arrival.TimeToStation),
		})
	}

	return summary
}

// MinutesUntil converts seconds to whole minutes, rounding down and never below zero
func MinutesUntil(seconds int64) int64 {
	if seconds <= 0 {
		return 0
	}

	return seconds / 60
}
