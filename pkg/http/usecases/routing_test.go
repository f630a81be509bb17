package usecases

import (
	"testing"
	"time"

	"github.com/rithy-sen/phnomroute/pkg/cache"
	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingCache wraps RouteCache to count backing computations by proxy:
// a second identical request must be answered from the cache.
type countingCache struct {
	inner *cache.RouteCache
	sets  int
}

func (c *countingCache) Get(key string) (da.Route, bool) { return c.inner.Get(key) }

func (c *countingCache) Set(key string, route da.Route, ttl time.Duration) {
	c.sets++
	c.inner.Set(key, route, ttl)
}

func newTestService(t *testing.T) (*RoutingService, *countingCache) {
	t.Helper()
	g, err := da.NewGraph("test-v1",
		[]da.Node{
			da.NewNode(1, 11.50, 104.80),
			da.NewNode(2, 11.51, 104.81),
		},
		[]da.Edge{da.NewEdge(1, 2, 100, nil)},
		false)
	require.NoError(t, err)

	log := zap.NewNop()
	cc := &countingCache{inner: cache.NewRouteCache(100, log)}
	service := NewRoutingService(log, g, nil, cc, 250, time.Minute)
	return service, cc
}

func TestRouteBetweenNodes(t *testing.T) {
	service, cc := newTestService(t)

	route, polyline, err := service.RouteBetweenNodes(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []da.NodeID{1, 2}, route.Path)
	assert.Equal(t, 100.0, route.TotalLength)
	assert.NotEmpty(t, polyline)
	assert.Equal(t, 1, cc.sets)

	// the repeat request answers from the cache, nothing new is stored
	again, _, err := service.RouteBetweenNodes(1, 2)
	require.NoError(t, err)
	assert.Equal(t, route, again)
	assert.Equal(t, 1, cc.sets)
}

func TestRouteBetweenNodesUnknownNode(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.RouteBetweenNodes(1, 99)
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrUnknownNode)
}

func TestRouteBetweenCoordinates(t *testing.T) {
	service, cc := newTestService(t)

	// just off node 1 and node 2, inside the default connection radius
	route, polyline, err := service.RouteBetweenCoordinates(11.5001, 104.8001, 11.5099, 104.8099)
	require.NoError(t, err)
	require.GreaterOrEqual(t, route.NodesCount(), 2)
	assert.Less(t, route.Path[0], da.NodeID(0))
	assert.Less(t, route.Path[len(route.Path)-1], da.NodeID(0))
	assert.Greater(t, route.TotalLength, 0.0)
	assert.NotEmpty(t, polyline)
	assert.Equal(t, 1, cc.sets)

	again, _, err := service.RouteBetweenCoordinates(11.5001, 104.8001, 11.5099, 104.8099)
	require.NoError(t, err)
	assert.Equal(t, route, again)
	assert.Equal(t, 1, cc.sets)
}

func TestRouteBetweenCoordinatesRejectsInvalid(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.RouteBetweenCoordinates(95.0, 104.80, 11.51, 104.81)
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrBadParamInput)
}

func TestPointFromNodeID(t *testing.T) {
	service, _ := newTestService(t)

	point, err := service.PointFromNodeID(1)
	require.NoError(t, err)
	assert.Equal(t, geo.NewCoordinate(11.50, 104.80), point)

	_, err = service.PointFromNodeID(99)
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrUnknownNode)
}

func TestAdjacencyList(t *testing.T) {
	service, _ := newTestService(t)

	adj := service.AdjacencyList()
	require.Len(t, adj, 2)
	require.Len(t, adj[1], 1)
	assert.Equal(t, da.NodeID(2), adj[1][0].GetTo())
	require.Len(t, adj[2], 1)
	assert.Equal(t, da.NodeID(1), adj[2][0].GetTo())
}

func TestPointOnEdgeDefaultTolerance(t *testing.T) {
	service, _ := newTestService(t)

	assert.True(t, service.PointOnEdge(11.505, 104.805, 0))
	assert.False(t, service.PointOnEdge(12.5, 105.8, 0))
}

func TestWarmCache(t *testing.T) {
	service, cc := newTestService(t)

	service.WarmCache([]CoordPair{
		{SLat: 11.5001, SLon: 104.8001, DLat: 11.5099, DLon: 104.8099},
		{SLat: 95.0, SLon: 104.80, DLat: 11.51, DLon: 104.81}, // out of range, skipped
	}, 2)

	assert.Equal(t, 1, cc.sets)

	// the warmed pair now answers without a fresh computation
	_, _, err := service.RouteBetweenCoordinates(11.5001, 104.8001, 11.5099, 104.8099)
	require.NoError(t, err)
	assert.Equal(t, 1, cc.sets)
}
