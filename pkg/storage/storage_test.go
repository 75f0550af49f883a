package storage

import (
	"context"
	"math"
	"os"
	"testing"

	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecordStore(t *testing.T, s RecordStore) {
	ctx := context.Background()

	traffic, err := s.TrafficRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, traffic)

	want := []da.TrafficRecord{
		da.NewTrafficRecord("Krasnaya 1, Krasnodar", "Krasnaya 20, Krasnodar"),
		da.NewTrafficRecord("Severnaya 300, Krasnodar", "Severnaya 350, Krasnodar"),
	}
	for _, r := range want {
		require.NoError(t, s.AddTrafficRecord(ctx, r))
	}
	require.NoError(t, s.AddIncidentRecord(ctx, da.NewIncidentRecord("Lenina", "Krasnodar", 4.5)))

	traffic, err = s.TrafficRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, traffic)

	incidents, err := s.IncidentRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []da.IncidentRecord{da.NewIncidentRecord("Lenina", "Krasnodar", 4.5)}, incidents)

	err = s.AddIncidentRecord(ctx, da.NewIncidentRecord("Lenina", "Krasnodar", -1))
	assert.ErrorIs(t, err, ErrInvalidRecord)
	err = s.AddIncidentRecord(ctx, da.NewIncidentRecord("Lenina", "Krasnodar", math.NaN()))
	assert.ErrorIs(t, err, ErrInvalidRecord)
	err = s.AddTrafficRecord(ctx, da.NewTrafficRecord("", "Krasnaya 20"))
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestPebbleStore(t *testing.T) {
	s, err := NewInMemoryPebbleStore()
	require.NoError(t, err)
	defer s.Close()

	testRecordStore(t, s)
}

func TestPebbleStorePersists(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPebbleStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.AddTrafficRecord(context.Background(), da.NewTrafficRecord("a", "b")))
	require.NoError(t, s.Close())

	s, err = NewPebbleStore(dir)
	require.NoError(t, err)
	defer s.Close()
	traffic, err := s.TrafficRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []da.TrafficRecord{da.NewTrafficRecord("a", "b")}, traffic)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))
	_, err = s.pool.Exec(ctx, `TRUNCATE rout1, traffic_incidents`)
	require.NoError(t, err)

	testRecordStore(t, s)
}

func TestPostgresQueries(t *testing.T) {
	q := newPostgresQueries("", "")
	assert.Equal(t, `SELECT start_address, end_address FROM "rout1"`, q.selectTraffic)
	assert.Equal(t, `SELECT street_name, city, severity FROM "traffic_incidents"`, q.selectIncidents)
	assert.Contains(t, q.schema, `CREATE TABLE IF NOT EXISTS "rout1"`)

	q = newPostgresQueries("traffic.routes", `incidents"; DROP TABLE rout1; --`)
	assert.Equal(t, `INSERT INTO "traffic"."routes" (start_address, end_address) VALUES ($1, $2)`, q.insertTraffic)
	assert.Equal(t, `SELECT street_name, city, severity FROM "incidents""; DROP TABLE rout1; --"`, q.selectIncidents)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mongodb"})
	assert.Error(t, err)

	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
