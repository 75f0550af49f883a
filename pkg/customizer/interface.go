package customizer

import (
	"context"

	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, bool, error)
}

type NodeResolver interface {
	NearestNode(lat, lon float64) (da.Index, error)
}

type RecordSource interface {
	TrafficRecords(ctx context.Context) ([]da.TrafficRecord, error)
	IncidentRecords(ctx context.Context) ([]da.IncidentRecord, error)
}

type Metric interface {
	ObserveWeightingRecord(pass, outcome string)
}
