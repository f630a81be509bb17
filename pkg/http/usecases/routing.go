package usecases

import (
	"time"

	"github.com/rithy-sen/phnomroute/pkg"
	"github.com/rithy-sen/phnomroute/pkg/cache"
	"github.com/rithy-sen/phnomroute/pkg/concurrent"
	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/engine/routing"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/query"
	"github.com/rithy-sen/phnomroute/pkg/util"
	"go.uber.org/zap"
)

type RoutingService struct {
	log     *zap.Logger
	base    *da.Graph
	engine  *routing.Engine
	queries *query.Engine
	cache   RouteCache

	cacheTTL   time.Duration
	connRadius float64
}

func NewRoutingService(log *zap.Logger, base *da.Graph, spatialIdx query.SpatialIndex,
	routeCache RouteCache, connRadiusMeter float64, cacheTTL time.Duration) *RoutingService {
	memo := routing.NewSearchMemo(pkg.DIJKSTRA_MEMO_CAPACITY)
	queries := query.NewEngine(base)
	if spatialIdx != nil {
		queries = query.NewEngineWithSpatialIndex(base, spatialIdx)
	}
	return &RoutingService{
		log:        log,
		base:       base,
		engine:     routing.NewEngineWithMemo(base, log, memo),
		queries:    queries,
		cache:      routeCache,
		cacheTTL:   cacheTTL,
		connRadius: connRadiusMeter,
	}
}

// RouteBetweenNodes routes between two existing node ids on the base graph
// and returns the route plus its encoded polyline.
func (rs *RoutingService) RouteBetweenNodes(startID, endID da.NodeID) (da.Route, string, error) {
	key := cache.RouteKey(rs.base.ID(), startID, endID)
	if route, ok := rs.cache.Get(key); ok {
		return route, geo.PolylineFromCoords(route.Geometry), nil
	}

	route, err := rs.engine.Route(startID, endID)
	if err != nil {
		return da.Route{}, "", err
	}

	rs.cache.Set(key, route, rs.cacheTTL)
	return route, geo.PolylineFromCoords(route.Geometry), nil
}

// RouteBetweenCoordinates routes between two arbitrary coordinates by
// inserting per-session temporary points. The augmented view and its engine
// live for this call only, so concurrent requests cannot see each other's
// temporary state.
func (rs *RoutingService) RouteBetweenCoordinates(sLat, sLon, dLat, dLon float64) (da.Route, string, error) {
	if !geo.ValidCoordinate(sLat, sLon) || !geo.ValidCoordinate(dLat, dLon) {
		return da.Route{}, "", util.WrapErrorf(nil, util.ErrBadParamInput,
			"coordinates out of range")
	}

	key := cache.CoordRouteKey(rs.base.ID(), sLat, sLon, dLat, dLon)
	if route, ok := rs.cache.Get(key); ok {
		return route, geo.PolylineFromCoords(route.Geometry), nil
	}

	view := da.NewAugmentedGraph(rs.base)
	originID := view.AddTempPoint(sLat, sLon, true, rs.connRadius)
	destinationID := view.AddTempPoint(dLat, dLon, true, rs.connRadius)

	engine := routing.NewEngine(view, rs.log)
	route, err := engine.Route(originID, destinationID)
	if err != nil {
		return da.Route{}, "", err
	}

	rs.cache.Set(key, route, rs.cacheTTL)
	return route, geo.PolylineFromCoords(route.Geometry), nil
}

func (rs *RoutingService) NearestNode(lat, lon float64) (da.NodeID, error) {
	return rs.queries.NearestNode(lat, lon)
}

func (rs *RoutingService) DistanceToNetwork(lat, lon float64) (query.NetworkDistance, error) {
	return rs.queries.DistanceToNetwork(lat, lon)
}

func (rs *RoutingService) PointOnEdge(lat, lon, toleranceMeter float64) bool {
	if toleranceMeter <= 0 {
		toleranceMeter = pkg.DEFAULT_ON_EDGE_TOLERANCE_METER
	}
	return rs.queries.PointOnEdge(lat, lon, toleranceMeter)
}

func (rs *RoutingService) PointFromNodeID(id da.NodeID) (geo.Coordinate, error) {
	node, ok := rs.base.NodeByID(id)
	if !ok {
		return geo.Coordinate{}, util.WrapErrorf(nil, util.ErrUnknownNode,
			"node %d not found in graph", id)
	}
	return node.Coordinate(), nil
}

func (rs *RoutingService) AdjacencyList() map[da.NodeID][]da.Arc {
	adj := make(map[da.NodeID][]da.Arc, rs.base.NumNodes())
	rs.base.ForNodes(func(n da.Node) bool {
		adj[n.GetID()] = rs.base.AdjacentTo(n.GetID())
		return true
	})
	return adj
}

// CoordPair is one origin/destination pair for cache warming.
type CoordPair struct {
	SLat, SLon float64
	DLat, DLon float64
}

// WarmCache precomputes popular coordinate routes through a worker pool so
// the first real queries hit a hot cache.
func (rs *RoutingService) WarmCache(pairs []CoordPair, numWorkers int) {
	if len(pairs) == 0 {
		return
	}
	if numWorkers <= 0 {
		numWorkers = 4
	}

	pool := concurrent.NewWorkerPool[CoordPair, error](numWorkers, len(pairs))
	pool.Start(func(p CoordPair) error {
		_, _, err := rs.RouteBetweenCoordinates(p.SLat, p.SLon, p.DLat, p.DLon)
		return err
	})
	for _, p := range pairs {
		pool.AddJob(p)
	}
	pool.Close()
	go func() {
		pool.Wait()
	}()

	warmed, failed := 0, 0
	for err := range pool.CollectResults() {
		if err != nil {
			failed++
			rs.log.Warn("failed to precompute route", zap.Error(err))
			continue
		}
		warmed++
	}
	rs.log.Info("route cache warmed", zap.Int("warmed", warmed), zap.Int("failed", failed))
}
