package usecases

import (
	"context"
	"errors"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/storage"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/util"
	"go.uber.org/zap"
)

// RecordService admin access to the traffic and incident records read by the weighting pass.
type RecordService struct {
	log   *zap.Logger
	store RecordStore
}

func NewRecordService(log *zap.Logger, store RecordStore) *RecordService {
	return &RecordService{log: log, store: store}
}

func (s *RecordService) AddTrafficRecord(ctx context.Context, startAddress, endAddress string) (datastructure.TrafficRecord, error) {
	record := datastructure.NewTrafficRecord(startAddress, endAddress)
	if err := s.store.AddTrafficRecord(ctx, record); err != nil {
		return datastructure.TrafficRecord{}, wrapStoreError(err, "add traffic record")
	}
	s.log.Info("traffic record added", zap.String("start_address", startAddress), zap.String("end_address", endAddress))
	return record, nil
}

func (s *RecordService) AddIncidentRecord(ctx context.Context, streetName, city string, severity float64) (datastructure.IncidentRecord, error) {
	record := datastructure.NewIncidentRecord(streetName, city, severity)
	if err := s.store.AddIncidentRecord(ctx, record); err != nil {
		return datastructure.IncidentRecord{}, wrapStoreError(err, "add incident record")
	}
	s.log.Info("incident record added", zap.String("address", record.Address()), zap.Float64("severity", severity))
	return record, nil
}

func (s *RecordService) TrafficRecords(ctx context.Context) ([]datastructure.TrafficRecord, error) {
	records, err := s.store.TrafficRecords(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "read traffic records")
	}
	return records, nil
}

func (s *RecordService) IncidentRecords(ctx context.Context) ([]datastructure.IncidentRecord, error) {
	records, err := s.store.IncidentRecords(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "read incident records")
	}
	return records, nil
}

func wrapStoreError(err error, msg string) error {
	if errors.Is(err, storage.ErrInvalidRecord) {
		return util.WrapErrorf(err, util.ErrBadParamInput, "%s: invalid record", msg)
	}
	return util.WrapErrorf(err, util.ErrInternalServerError, "%s", msg)
}
