package controllers

import (
	"context"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/customizer"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/render"
)

type RoutingService interface {
	ComputeRoutes(ctx context.Context, startAddress, endAddress, place string) (render.MapDocument, *customizer.AdjustmentReport, error)
}

type RecordService interface {
	AddTrafficRecord(ctx context.Context, startAddress, endAddress string) (datastructure.TrafficRecord, error)
	AddIncidentRecord(ctx context.Context, streetName, city string, severity float64) (datastructure.IncidentRecord, error)
	TrafficRecords(ctx context.Context) ([]datastructure.TrafficRecord, error)
	IncidentRecords(ctx context.Context) ([]datastructure.IncidentRecord, error)
}
