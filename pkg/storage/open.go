package storage

import (
	"context"
	"fmt"
)

type Config struct {
	Driver      string
	PebbleDir   string
	PostgresDSN string

	// empty table names fall back to rout1 and traffic_incidents.
	TrafficTable  string
	IncidentTable string
}

// Open returns the record store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (RecordStore, error) {
	switch cfg.Driver {
	case "", DRIVER_PEBBLE:
		if cfg.PebbleDir == "" {
			return NewInMemoryPebbleStore()
		}
		return NewPebbleStore(cfg.PebbleDir)
	case DRIVER_POSTGRES:
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN, WithTables(cfg.TrafficTable, cfg.IncidentTable))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("create record tables: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
