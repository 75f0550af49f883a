package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

const (
	DEFAULT_TRAFFIC_TABLE  = "rout1"
	DEFAULT_INCIDENT_TABLE = "traffic_incidents"
)

type postgresQueries struct {
	schema          string
	selectTraffic   string
	selectIncidents string
	insertTraffic   string
	insertIncident  string
}

// tableIdentifier quotes a table name, "schema.table" names are quoted per part.
func tableIdentifier(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

func newPostgresQueries(trafficTable, incidentTable string) postgresQueries {
	if trafficTable == "" {
		trafficTable = DEFAULT_TRAFFIC_TABLE
	}
	if incidentTable == "" {
		incidentTable = DEFAULT_INCIDENT_TABLE
	}
	traffic, incidents := tableIdentifier(trafficTable), tableIdentifier(incidentTable)

	return postgresQueries{
		schema: fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	start_address TEXT NOT NULL,
	end_address   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS %s (
	street_name TEXT NOT NULL,
	city        TEXT NOT NULL,
	severity    DOUBLE PRECISION NOT NULL CHECK (severity >= 0)
);`, traffic, incidents),
		// existing tables carry no ordering column, rows come back in table order.
		selectTraffic:   fmt.Sprintf(`SELECT start_address, end_address FROM %s`, traffic),
		selectIncidents: fmt.Sprintf(`SELECT street_name, city, severity FROM %s`, incidents),
		insertTraffic:   fmt.Sprintf(`INSERT INTO %s (start_address, end_address) VALUES ($1, $2)`, traffic),
		insertIncident:  fmt.Sprintf(`INSERT INTO %s (street_name, city, severity) VALUES ($1, $2, $3)`, incidents),
	}
}

type PostgresOption func(*PostgresStore)

// WithTables overrides the traffic and incident table names. Empty names keep the defaults.
func WithTables(trafficTable, incidentTable string) PostgresOption {
	return func(s *PostgresStore) {
		s.queries = newPostgresQueries(trafficTable, incidentTable)
	}
}

// PostgresStore reads traffic records from the rout1 table and incidents from traffic_incidents,
// unless WithTables names others.
type PostgresStore struct {
	pool    *pgxpool.Pool
	queries postgresQueries
}

func NewPostgresStore(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{pool: pool, queries: newPostgresQueries("", "")}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureSchema creates the record tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, s.queries.schema)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) TrafficRecords(ctx context.Context) ([]da.TrafficRecord, error) {
	rows, err := s.pool.Query(ctx, s.queries.selectTraffic)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (da.TrafficRecord, error) {
		var r da.TrafficRecord
		err := row.Scan(&r.StartAddress, &r.EndAddress)
		return r, err
	})
}

func (s *PostgresStore) IncidentRecords(ctx context.Context) ([]da.IncidentRecord, error) {
	rows, err := s.pool.Query(ctx, s.queries.selectIncidents)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (da.IncidentRecord, error) {
		var r da.IncidentRecord
		err := row.Scan(&r.StreetName, &r.City, &r.Severity)
		return r, err
	})
}

func (s *PostgresStore) AddTrafficRecord(ctx context.Context, r da.TrafficRecord) error {
	if err := validateTraffic(r); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, s.queries.insertTraffic,
		r.StartAddress, r.EndAddress)
	return err
}

func (s *PostgresStore) AddIncidentRecord(ctx context.Context, r da.IncidentRecord) error {
	if err := validateIncident(r); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, s.queries.insertIncident,
		r.StreetName, r.City, r.Severity)
	return err
}
