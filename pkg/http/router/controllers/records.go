package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

const maxRecordBodyBytes = 1 << 20

// addTrafficRecord
//
//	@Summary		add a traffic record.
//	@Description	the road segment between the two addresses is penalized in every following route query.
//	@Tags			records
//	@Param			body	body	trafficRecordRequest	true	"traffic record"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/trafficRecords [post]
//	@Success		201	{object}	datastructure.TrafficRecord
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *routingAPI) addTrafficRecord(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request trafficRecordRequest
	if err := decodeJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	record, err := api.recordService.AddTrafficRecord(r.Context(), request.StartAddress, request.EndAddress)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": record}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// addIncidentRecord
//
//	@Summary		add an incident record.
//	@Description	severity is added to every road segment leaving the intersection nearest to the street.
//	@Tags			records
//	@Param			body	body	incidentRecordRequest	true	"incident record"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/incidentRecords [post]
//	@Success		201	{object}	datastructure.IncidentRecord
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *routingAPI) addIncidentRecord(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request incidentRecordRequest
	if err := decodeJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	record, err := api.recordService.AddIncidentRecord(r.Context(), request.StreetName, request.City, request.Severity)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": record}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

//	@Summary	list traffic records.
//	@Tags		records
//	@Produce	application/json
//	@Router		/trafficRecords [get]
//	@Success	200	{array}		datastructure.TrafficRecord
//	@Failure	500	{object}	errorResponse
func (api *routingAPI) trafficRecords(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	records, err := api.recordService.TrafficRecords(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": records}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

//	@Summary	list incident records.
//	@Tags		records
//	@Produce	application/json
//	@Router		/incidentRecords [get]
//	@Success	200	{array}		datastructure.IncidentRecord
//	@Failure	500	{object}	errorResponse
func (api *routingAPI) incidentRecords(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	records, err := api.recordService.IncidentRecords(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": records}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecordBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("body contains badly-formed JSON: %w", err)
	}
	return r.Body.Close()
}
