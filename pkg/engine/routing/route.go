package routing

import (
	"github.com/rithy-sen/phnomroute/pkg"
	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/util"
	"go.uber.org/zap"
)

// Route computes the shortest route from origin to destination over the
// engine's view. Endpoint ids absent from the node set fail with
// ErrUnknownNode naming the failing side; valid but disconnected endpoints
// fail with ErrNoPath.
func (e *Engine) Route(origin, destination da.NodeID) (da.Route, error) {
	if !e.view.HasNode(origin) {
		return da.Route{}, util.WrapErrorf(nil, util.ErrUnknownNode,
			"start node %d not found in graph", origin)
	}
	if !e.view.HasNode(destination) {
		return da.Route{}, util.WrapErrorf(nil, util.ErrUnknownNode,
			"end node %d not found in graph", destination)
	}

	if origin == destination {
		node, _ := e.view.NodeByID(origin)
		return da.NewRoute([]da.NodeID{origin}, 0,
			[]geo.Coordinate{node.Coordinate()}), nil
	}

	st := e.searchMaybeMemoized(origin, destination)

	dist, ok := st.dist[destination]
	if !ok || dist >= pkg.INF_WEIGHT {
		return da.Route{}, util.WrapErrorf(nil, util.ErrNoPath,
			"no valid path from %d to %d", origin, destination)
	}

	path := ReconstructPath(st.prev, destination)
	if len(path) == 0 || path[0] != origin {
		return da.Route{}, util.WrapErrorf(nil, util.ErrNoPath,
			"no valid path from %d to %d", origin, destination)
	}

	geometry, err := e.pathGeometry(path)
	if err != nil {
		e.log.Error("graph corruption detected while stitching route geometry",
			zap.Int64("origin", origin), zap.Int64("destination", destination),
			zap.Error(err))
		return da.Route{}, err
	}

	return da.NewRoute(path, dist, geometry), nil
}

func (e *Engine) searchMaybeMemoized(origin, destination da.NodeID) searchState {
	if e.memo == nil || e.view.HasTemporary() {
		return e.search(origin, destination, true)
	}

	key := memoKey(e.view.ID(), origin)
	if st, ok := e.memo.get(key); ok {
		return st
	}
	// full run so the memoized maps cover every reachable node
	st := e.search(origin, destination, false)
	e.memo.put(key, st)
	return st
}

// pathGeometry stitches the route polyline: the stored edge geometry of each
// consecutive pair when present (reversed when only the opposite edge
// exists), the straight segment between node coordinates otherwise.
func (e *Engine) pathGeometry(path []da.NodeID) ([]geo.Coordinate, error) {
	geometry := make([]geo.Coordinate, 0, len(path))

	appendPoint := func(c geo.Coordinate) {
		if n := len(geometry); n > 0 && geometry[n-1] == c {
			return
		}
		geometry = append(geometry, c)
	}

	for i := 0; i < len(path)-1; i++ {
		u, v := path[i], path[i+1]

		if edge, ok := e.view.EdgeBetween(u, v); ok && len(edge.GetGeometry()) > 0 {
			for _, c := range edge.GetGeometry() {
				appendPoint(c)
			}
			continue
		}
		if edge, ok := e.view.EdgeBetween(v, u); ok && len(edge.GetGeometry()) > 0 {
			stored := edge.GetGeometry()
			for j := len(stored) - 1; j >= 0; j-- {
				appendPoint(stored[j])
			}
			continue
		}

		uNode, ok := e.view.NodeByID(u)
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrCorruptGraph,
				"path references node %d missing from node map", u)
		}
		vNode, ok := e.view.NodeByID(v)
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrCorruptGraph,
				"path references node %d missing from node map", v)
		}
		appendPoint(uNode.Coordinate())
		appendPoint(vNode.Coordinate())
	}

	return geometry, nil
}
