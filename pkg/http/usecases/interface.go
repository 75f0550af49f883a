package usecases

import (
	"context"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, bool, error)
}

type GraphProvider interface {
	GraphForPlace(ctx context.Context, place, networkType string) (*datastructure.Graph, error)
}

type RecordStore interface {
	TrafficRecords(ctx context.Context) ([]datastructure.TrafficRecord, error)
	IncidentRecords(ctx context.Context) ([]datastructure.IncidentRecord, error)
	AddTrafficRecord(ctx context.Context, r datastructure.TrafficRecord) error
	AddIncidentRecord(ctx context.Context, r datastructure.IncidentRecord) error
}

type Metric interface {
	ObserveWeightingRecord(pass, outcome string)
	ObserveRouteQuery(result string)
}
