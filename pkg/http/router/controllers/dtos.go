package controllers

import (
	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
)

type routeRequest struct {
	StartID int64 `json:"start_id"`
	EndID   int64 `json:"end_id"`
}

type navigateRequest struct {
	SourceLat      float64 `json:"s_lat" validate:"min=-90,max=90"`
	SourceLon      float64 `json:"s_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"d_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"d_lon" validate:"min=-180,max=180"`
}

type pointRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type routeResponse struct {
	Path        []int64          `json:"path"`
	TotalLength float64          `json:"total_length"`
	NodesCount  int              `json:"nodes_count"`
	Polyline    string           `json:"polyline"`
	Geometry    []geo.Coordinate `json:"geometry"`
}

func NewRouteResponse(route da.Route, polyline string) routeResponse {
	return routeResponse{
		Path:        route.Path,
		TotalLength: route.TotalLength,
		NodesCount:  route.NodesCount(),
		Polyline:    polyline,
		Geometry:    route.Geometry,
	}
}

type nearestNodeResponse struct {
	NodeID int64 `json:"node_id"`
}

type pointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type onEdgeResponse struct {
	Result bool `json:"result"`
}

type adjacencyEntry struct {
	To     int64   `json:"to"`
	Length float64 `json:"length"`
}

func NewAdjacencyResponse(adj map[da.NodeID][]da.Arc) map[int64][]adjacencyEntry {
	out := make(map[int64][]adjacencyEntry, len(adj))
	for id, arcs := range adj {
		entries := make([]adjacencyEntry, 0, len(arcs))
		for _, a := range arcs {
			entries = append(entries, adjacencyEntry{To: a.GetTo(), Length: a.GetWeight()})
		}
		out[id] = entries
	}
	return out
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
