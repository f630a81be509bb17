package query

import (
	"math"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/util"
)

// SpatialIndex narrows the candidate edge set for point queries.
type SpatialIndex interface {
	SearchWithinRadius(lat, lon, radiusMeter float64) []da.Edge
}

// Engine answers point-location queries against one graph view.
type Engine struct {
	view da.GraphView
	idx  SpatialIndex
}

func NewEngine(view da.GraphView) *Engine {
	return &Engine{view: view}
}

// NewEngineWithSpatialIndex accelerates PointOnEdge through idx. The index
// must have been built from the same graph snapshot as view.
func NewEngineWithSpatialIndex(view da.GraphView, idx SpatialIndex) *Engine {
	return &Engine{view: view, idx: idx}
}

// NearestNode scans every node and returns the id closest to (lat, lon) by
// haversine distance, ties broken by construction order.
func (e *Engine) NearestNode(lat, lon float64) (da.NodeID, error) {
	if e.view.NumNodes() == 0 {
		return 0, util.WrapErrorf(nil, util.ErrEmptyGraph,
			"nearest node query against empty graph")
	}

	minDist := math.Inf(1)
	var closest da.NodeID
	e.view.ForNodes(func(n da.Node) bool {
		dist := geo.CalculateHaversineDistance(lat, lon, n.GetLat(), n.GetLon())
		if dist < minDist {
			minDist = dist
			closest = n.GetID()
		}
		return true
	})
	return closest, nil
}

type NetworkDistance struct {
	NodeID         da.NodeID      `json:"node_id"`
	DistanceMeters float64        `json:"distance_meters"`
	Coordinate     geo.Coordinate `json:"coordinate"`
}

// DistanceToNetwork reports how far (lat, lon) is from the network: the
// nearest node, its geodesic distance and its coordinates.
func (e *Engine) DistanceToNetwork(lat, lon float64) (NetworkDistance, error) {
	id, err := e.NearestNode(lat, lon)
	if err != nil {
		return NetworkDistance{}, err
	}
	node, ok := e.view.NodeByID(id)
	if !ok {
		return NetworkDistance{}, util.WrapErrorf(nil, util.ErrCorruptGraph,
			"nearest node %d missing from node map", id)
	}
	return NetworkDistance{
		NodeID:         id,
		DistanceMeters: geo.CalculateHaversineDistance(lat, lon, node.GetLat(), node.GetLon()),
		Coordinate:     node.Coordinate(),
	}, nil
}

// PointOnEdge reports whether (lat, lon) lies within toleranceMeter of any
// edge line: the stored polyline when present, the straight segment between
// endpoint coordinates otherwise. Short-circuits on the first match.
func (e *Engine) PointOnEdge(lat, lon, toleranceMeter float64) bool {
	point := geo.NewCoordinate(lat, lon)

	if e.idx != nil {
		for _, edge := range e.idx.SearchWithinRadius(lat, lon, toleranceMeter) {
			if e.edgeWithinTolerance(edge, point, toleranceMeter) {
				return true
			}
		}
		return false
	}

	found := false
	e.view.ForEdges(func(edge da.Edge) bool {
		if e.edgeWithinTolerance(edge, point, toleranceMeter) {
			found = true
			return false
		}
		return true
	})
	return found
}

func (e *Engine) edgeWithinTolerance(edge da.Edge, point geo.Coordinate, toleranceMeter float64) bool {
	line := edge.GetGeometry()
	if len(line) == 0 {
		src, okSrc := e.view.NodeByID(edge.GetSource())
		tgt, okTgt := e.view.NodeByID(edge.GetTarget())
		if !okSrc || !okTgt {
			return false
		}
		line = []geo.Coordinate{src.Coordinate(), tgt.Coordinate()}
	}

	if len(line) == 1 {
		return geo.CalculateHaversineDistance(point.Lat, point.Lon,
			line[0].Lat, line[0].Lon) < toleranceMeter
	}

	for i := 0; i < len(line)-1; i++ {
		if geo.PointLinePerpendicularDistance(line[i], line[i+1], point) < toleranceMeter {
			return true
		}
	}
	return false
}
