package tfl

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Arrival is a single prediction returned by the StopPoint arrivals endpoint.
// Values are passed through exactly as TfL sent them.
type Arrival struct {
	ID            string `json:"id"`
	OperationType int    `json:"operationType"`
	VehicleID     string `json:"vehicleId"`

	NaptanID    string `json:"naptanId"`
	StationName string `json:"stationName"`

	LineID   string `json:"lineId"`
	LineName string `json:"lineName"`

	PlatformName string `json:"platformName"`
	Direction    string `json:"direction"`
	Bearing      string `json:"bearing"`

	TripID      string `json:"tripId"`
	BaseVersion string `json:"baseVersion"`

	DestinationNaptanID string `json:"destinationNaptanId"`
	DestinationName     string `json:"destinationName"`

	Timestamp     string `json:"timestamp"`
	TimeToStation int64  `json:"timeToStation"`

	CurrentLocation string `json:"currentLocation"`
	Towards         string `json:"towards"`

	ExpectedArrival string `json:"expectedArrival"`
	TimeToLive      string `json:"timeToLive"`

	ModeName string `json:"modeName"`

	Timing Timing `json:"timing"`
}

// Timing is TfL's countdown server bookkeeping
type Timing struct {
	CountdownServerAdjustment string `json:"countdownServerAdjustment"`
	Source                    string `json:"source"`
	Insert                    string `json:"insert"`
	Read                      string `json:"read"`
	Sent                      string `json:"sent"`
	Received                  string `json:"received"`
}

var requiredArrivalFields = []string{
	"id", "operationType", "vehicleId", "naptanId", "stationName", "lineId", "lineName",
	"platformName", "direction", "bearing", "tripId", "baseVersion", "destinationNaptanId",
	"destinationName", "timestamp", "timeToStation", "currentLocation", "towards",
	"expectedArrival", "timeToLive", "modeName", "timing",
}

var requiredTimingFields = []string{
	"countdownServerAdjustment", "source", "insert", "read", "sent", "received",
}

// DecodeArrivals parses a complete response body. The body must be a JSON array
// and every record must carry all of the arrival fields.
func DecodeArrivals(body []byte) ([]Arrival, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, errors.New("expected a list of arrivals, got null")
	}

	for i, record := range records {
		if record == nil {
			return nil, fmt.Errorf("arrival %d is null", i)
		}
		for _, field := range requiredArrivalFields {
			if _, ok := record[field]; !ok {
				return nil, fmt.Errorf("arrival %d is missing field %q", i, field)
			}
		}

		var timing map[string]json.RawMessage
		if err := json.Unmarshal(record["timing"], &timing); err != nil {
			return nil, fmt.Errorf("arrival %d timing: %w", i, err)
		}
		for _, field := range requiredTimingFields {
			if _, ok := timing[field]; !ok {
				return nil, fmt.Errorf("arrival %d timing is missing field %q", i, field)
			}
		}
	}

	var arrivals []Arrival
	if err := json.Unmarshal(body, &arrivals); err != nil {
		return nil, err
	}

	return arrivals, nil
}
