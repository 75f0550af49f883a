package datastructure

import (
	"fmt"
	"math"
)

// TrafficRecord marks a known congested road segment between two addresses.
type TrafficRecord struct {
	StartAddress string `json:"start_address"`
	EndAddress   string `json:"end_address"`
}

func NewTrafficRecord(start, end string) TrafficRecord {
	return TrafficRecord{StartAddress: start, EndAddress: end}
}

// IncidentRecord is a road incident on a street. Severity is added to the cost of every road
// segment leaving the nearest intersection.
type IncidentRecord struct {
	StreetName string  `json:"street_name"`
	City       string  `json:"city"`
	Severity   float64 `json:"severity"`
}

func NewIncidentRecord(street, city string, severity float64) IncidentRecord {
	return IncidentRecord{StreetName: street, City: city, Severity: severity}
}

func (r IncidentRecord) Address() string {
	return fmt.Sprintf("%s, %s", r.StreetName, r.City)
}

// HasValidSeverity reports whether the severity is a non-negative number. NaN is invalid.
func (r IncidentRecord) HasValidSeverity() bool {
	return r.Severity >= 0 && !math.IsNaN(r.Severity)
}
