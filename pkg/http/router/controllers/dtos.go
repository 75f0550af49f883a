package controllers

import (
	"github.com/lintang-b-s/navigatorx-traffic/pkg/customizer"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/render"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/util"
)

type computeRoutesRequest struct {
	StartAddress string `json:"start_address" validate:"required,max=256"`
	EndAddress   string `json:"end_address" validate:"required,max=256"`
	Place        string `json:"place" validate:"max=256"`
	Format       string `json:"format" validate:"omitempty,oneof=json geojson"`
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func newCoordinate(c geo.Coordinate) coordinate {
	return coordinate{Lat: c.GetLat(), Lon: c.GetLon()}
}

// routeResponse a smoothed route. Path is the encoded polyline (precision 5) of the smoothed curve.
type routeResponse struct {
	Kind     string       `json:"kind"`
	Path     string       `json:"path"`
	Points   int          `json:"points"`
	Cost     float64      `json:"cost"`
	Distance float64      `json:"distance"`
	Style    render.Style `json:"style"`
}

type weightingSummary struct {
	Applied      int    `json:"applied"`
	Skipped      int    `json:"skipped"`
	UpdatedEdges int    `json:"updated_edges"`
	Aborted      bool   `json:"aborted"`
	AbortReason  string `json:"abort_reason,omitempty"`
}

type computeRoutesResponse struct {
	Status    string           `json:"status"`
	Start     coordinate       `json:"start"`
	End       coordinate       `json:"end"`
	Routes    []routeResponse  `json:"routes"`
	Weighting weightingSummary `json:"weighting"`
}

func NewComputeRoutesResponse(doc render.MapDocument, report *customizer.AdjustmentReport) computeRoutesResponse {
	routes := make([]routeResponse, 0, len(doc.Routes))
	for _, r := range doc.Routes {
		routes = append(routes, routeResponse{
			Kind:     r.Kind.String(),
			Path:     geo.PolylineFromCoords(r.Curve),
			Points:   len(r.Curve),
			Cost:     util.RoundFloat(r.Cost, 2),
			Distance: util.RoundFloat(r.Length, 2),
			Style:    r.Style,
		})
	}

	var summary weightingSummary
	if report != nil {
		summary.Applied = report.Count(customizer.APPLIED)
		summary.Skipped = len(report.Results) - summary.Applied
		summary.UpdatedEdges = len(report.UpdatedEdges())
		summary.Aborted = report.Aborted
		if report.AbortErr != nil {
			summary.AbortReason = report.AbortErr.Error()
		}
	}

	return computeRoutesResponse{
		Status:    doc.Status,
		Start:     newCoordinate(doc.Start),
		End:       newCoordinate(doc.End),
		Routes:    routes,
		Weighting: summary,
	}
}

type trafficRecordRequest struct {
	StartAddress string `json:"start_address" validate:"required,max=256"`
	EndAddress   string `json:"end_address" validate:"required,max=256"`
}

type incidentRecordRequest struct {
	StreetName string  `json:"street_name" validate:"required,max=256"`
	City       string  `json:"city" validate:"required,max=256"`
	Severity   float64 `json:"severity" validate:"gte=0"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
