package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

const (
	trafficPrefix  = "traffic/"
	incidentPrefix = "incident/"
	countSuffix    = "count"
)

// PebbleStore keeps records under "<kind>/<seq>" keys next to a "<kind>/count" counter.
type PebbleStore struct {
	db *pebble.DB
	mu sync.Mutex
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	return openPebble(dir, &pebble.Options{})
}

// NewInMemoryPebbleStore for tests and the one shot planner.
func NewInMemoryPebbleStore() (*PebbleStore, error) {
	return openPebble("", &pebble.Options{FS: vfs.NewMem()})
}

func openPebble(dir string, opts *pebble.Options) (*PebbleStore, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble at %q: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func recordKey(prefix string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, seq))
}

func (s *PebbleStore) count(prefix string) (uint64, error) {
	val, closer, err := s.db.Get([]byte(prefix + countSuffix))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupted counter %s%s", prefix, countSuffix)
	}
	return binary.BigEndian.Uint64(val), nil
}

func (s *PebbleStore) append(prefix string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.count(prefix)
	if err != nil {
		return err
	}
	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, n+1)

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(recordKey(prefix, n), data, nil); err != nil {
		return err
	}
	if err := b.Set([]byte(prefix+countSuffix), counter, nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

func readAll[T any](ctx context.Context, s *PebbleStore, prefix string) ([]T, error) {
	n, err := s.count(prefix)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, n)
	for seq := uint64(0); seq < n; seq++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, closer, err := s.db.Get(recordKey(prefix, seq))
		if err != nil {
			return nil, fmt.Errorf("read %s%d: %w", prefix, seq, err)
		}
		var r T
		err = json.Unmarshal(val, &r)
		closer.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s%d: %w", prefix, seq, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *PebbleStore) TrafficRecords(ctx context.Context) ([]da.TrafficRecord, error) {
	return readAll[da.TrafficRecord](ctx, s, trafficPrefix)
}

func (s *PebbleStore) IncidentRecords(ctx context.Context) ([]da.IncidentRecord, error) {
	return readAll[da.IncidentRecord](ctx, s, incidentPrefix)
}

func (s *PebbleStore) AddTrafficRecord(ctx context.Context, r da.TrafficRecord) error {
	if err := validateTraffic(r); err != nil {
		return err
	}
	return s.append(trafficPrefix, r)
}

func (s *PebbleStore) AddIncidentRecord(ctx context.Context, r da.IncidentRecord) error {
	if err := validateIncident(r); err != nil {
		return err
	}
	return s.append(incidentPrefix, r)
}
