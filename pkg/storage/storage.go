package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

var ErrInvalidRecord = errors.New("invalid traffic/incident record")

const (
	DRIVER_PEBBLE   = "pebble"
	DRIVER_POSTGRES = "postgres"
)

// RecordStore persists traffic and incident records. Reads always return the full set, in insertion order.
type RecordStore interface {
	TrafficRecords(ctx context.Context) ([]da.TrafficRecord, error)
	IncidentRecords(ctx context.Context) ([]da.IncidentRecord, error)
	AddTrafficRecord(ctx context.Context, r da.TrafficRecord) error
	AddIncidentRecord(ctx context.Context, r da.IncidentRecord) error
	Close() error
}

func validateTraffic(r da.TrafficRecord) error {
	if strings.TrimSpace(r.StartAddress) == "" || strings.TrimSpace(r.EndAddress) == "" {
		return fmt.Errorf("%w: traffic record needs start and end address", ErrInvalidRecord)
	}
	return nil
}

func validateIncident(r da.IncidentRecord) error {
	if strings.TrimSpace(r.StreetName) == "" || strings.TrimSpace(r.City) == "" {
		return fmt.Errorf("%w: incident record needs street name and city", ErrInvalidRecord)
	}
	if !r.HasValidSeverity() {
		return fmt.Errorf("%w: severity must be a non-negative number, got %f", ErrInvalidRecord, r.Severity)
	}
	return nil
}
