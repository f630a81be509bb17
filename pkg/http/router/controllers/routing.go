package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/rithy-sen/phnomroute/pkg"
	helper "github.com/rithy-sen/phnomroute/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.route)
	group.GET("/navigate", api.navigate)
	group.GET("/nearest", api.nearestNode)
	group.GET("/on-edge", api.onEdge)
	group.GET("/distance-to-network", api.distanceToNetwork)
	group.GET("/getPoint", api.getPoint)
	group.GET("/adjlist", api.adjacencyList)
}

func (api *routingAPI) validateStruct(w http.ResponseWriter, r *http.Request, request interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return false
	}
	return true
}

func (api *routingAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request routeRequest
		err     error
	)

	query := r.URL.Query()

	request.StartID, err = strconv.ParseInt(query.Get("start_id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("start_id is required and must be a valid integer"))
		return
	}
	request.EndID, err = strconv.ParseInt(query.Get("end_id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("end_id is required and must be a valid integer"))
		return
	}

	route, polyline, err := api.routingService.RouteBetweenNodes(request.StartID, request.EndID)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewRouteResponse(route, polyline)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) navigate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request navigateRequest
		err     error
	)

	query := r.URL.Query()

	request.SourceLat, err = strconv.ParseFloat(query.Get("s_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("s_lat is required and must be a valid float"))
		return
	}
	request.SourceLon, err = strconv.ParseFloat(query.Get("s_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("s_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("d_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("d_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("d_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("d_lon is required and must be a valid float"))
		return
	}
	if !api.validateStruct(w, r, request) {
		return
	}

	route, polyline, err := api.routingService.RouteBetweenCoordinates(request.SourceLat,
		request.SourceLon, request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewRouteResponse(route, polyline)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) parsePoint(w http.ResponseWriter, r *http.Request) (pointRequest, bool) {
	var (
		request pointRequest
		err     error
	)

	query := r.URL.Query()

	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return request, false
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return request, false
	}
	if !api.validateStruct(w, r, request) {
		return request, false
	}
	return request, true
}

func (api *routingAPI) nearestNode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.parsePoint(w, r)
	if !ok {
		return
	}

	nodeID, err := api.routingService.NearestNode(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": nearestNodeResponse{NodeID: nodeID}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) onEdge(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.parsePoint(w, r)
	if !ok {
		return
	}

	tolerance := pkg.DEFAULT_ON_EDGE_TOLERANCE_METER
	if raw := r.URL.Query().Get("tolerance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			api.BadRequestResponse(w, r, errors.New("tolerance must be a positive float (meter)"))
			return
		}
		tolerance = parsed
	}

	result := api.routingService.PointOnEdge(request.Lat, request.Lon, tolerance)

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": onEdgeResponse{Result: result}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) distanceToNetwork(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.parsePoint(w, r)
	if !ok {
		return
	}

	result, err := api.routingService.DistanceToNetwork(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": result}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) getPoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("id is required and must be a valid integer"))
		return
	}

	coord, err := api.routingService.PointFromNodeID(id)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": pointResponse{Lat: coord.Lat, Lon: coord.Lon}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) adjacencyList(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	adj := api.routingService.AdjacencyList()

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewAdjacencyResponse(adj)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
