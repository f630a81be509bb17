package controllers

import (
	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/query"
)

type RoutingService interface {
	RouteBetweenNodes(startID, endID da.NodeID) (da.Route, string, error)
	RouteBetweenCoordinates(sLat, sLon, dLat, dLon float64) (da.Route, string, error)
	NearestNode(lat, lon float64) (da.NodeID, error)
	DistanceToNetwork(lat, lon float64) (query.NetworkDistance, error)
	PointOnEdge(lat, lon, toleranceMeter float64) bool
	PointFromNodeID(id da.NodeID) (geo.Coordinate, error)
	AdjacencyList() map[da.NodeID][]da.Arc
}
