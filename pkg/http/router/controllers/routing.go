package controllers

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/navigatorx-traffic/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/render"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	recordService  RecordService
	log            *zap.Logger
}

func New(routingService RoutingService, recordService RecordService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		recordService:  recordService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.computeRoutes)

	group.GET("/trafficRecords", api.trafficRecords)
	group.POST("/trafficRecords", api.addTrafficRecord)
	group.GET("/incidentRecords", api.incidentRecords)
	group.POST("/incidentRecords", api.addIncidentRecord)
}

// computeRoutes
//
//	@Summary		optimal, shortest and alternative route between two addresses.
//	@Description	geocodes both addresses, applies traffic and incident penalties to a fresh road graph of the place and returns the smoothed routes.
//	@Tags			routing
//	@Param			start_address	query	string	true	"start address"
//	@Param			end_address		query	string	true	"end address"
//	@Param			place			query	string	false	"place whose road network is used"
//	@Param			format			query	string	false	"json (default) or geojson"
//	@Produce		application/json
//	@Router			/computeRoutes [get]
//	@Success		200	{object}	computeRoutesResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	request := computeRoutesRequest{
		StartAddress: strings.TrimSpace(query.Get("start_address")),
		EndAddress:   strings.TrimSpace(query.Get("end_address")),
		Place:        strings.TrimSpace(query.Get("place")),
		Format:       query.Get("format"),
	}
	if err := validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	doc, report, err := api.routingService.ComputeRoutes(r.Context(), request.StartAddress, request.EndAddress,
		request.Place)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if request.Format == "geojson" {
		data, err := render.FeatureCollection(doc).MarshalJSON()
		if err != nil {
			api.ServerErrorResponse(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewComputeRoutesResponse(doc, report)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
