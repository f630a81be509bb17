package query

import (
	"testing"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/spatialindex"
	"github.com/rithy-sen/phnomroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGraph(t *testing.T) *da.Graph {
	t.Helper()
	g, err := da.NewGraph("test-v1",
		[]da.Node{
			da.NewNode(1, 11.50, 104.80),
			da.NewNode(2, 11.51, 104.81),
			da.NewNode(3, 11.60, 104.90),
		},
		[]da.Edge{
			da.NewEdge(1, 2, 100, nil),
		},
		true)
	require.NoError(t, err)
	return g
}

func TestNearestNodeExactMatch(t *testing.T) {
	g := testGraph(t)
	engine := NewEngine(g)

	id, err := engine.NearestNode(11.50, 104.80)
	require.NoError(t, err)
	assert.Equal(t, da.NodeID(1), id)

	result, err := engine.DistanceToNetwork(11.50, 104.80)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.DistanceMeters)
}

func TestNearestNodePicksClosest(t *testing.T) {
	g := testGraph(t)
	engine := NewEngine(g)

	id, err := engine.NearestNode(11.512, 104.812)
	require.NoError(t, err)
	assert.Equal(t, da.NodeID(2), id)
}

func TestNearestNodeEmptyGraph(t *testing.T) {
	g, err := da.NewGraph("empty-v1", nil, nil, true)
	require.NoError(t, err)
	engine := NewEngine(g)

	_, err = engine.NearestNode(11.50, 104.80)
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrEmptyGraph)

	_, err = engine.DistanceToNetwork(11.50, 104.80)
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrEmptyGraph)
}

func TestDistanceToNetwork(t *testing.T) {
	g := testGraph(t)
	engine := NewEngine(g)

	result, err := engine.DistanceToNetwork(11.505, 104.80)
	require.NoError(t, err)

	assert.Equal(t, da.NodeID(1), result.NodeID)
	assert.Equal(t, geo.NewCoordinate(11.50, 104.80), result.Coordinate)
	// 0.005 degree of latitude, about 556 m
	assert.InDelta(t, 556.0, result.DistanceMeters, 2.0)
}

func TestPointOnEdgeStraightSegmentFallback(t *testing.T) {
	g := testGraph(t)
	engine := NewEngine(g)

	// midpoint of the 1-2 segment
	assert.True(t, engine.PointOnEdge(11.505, 104.805, 25))

	// node 3 is far from the only edge
	assert.False(t, engine.PointOnEdge(11.60, 104.90, 25))
}

func TestPointOnEdgeUsesStoredGeometry(t *testing.T) {
	curve := []geo.Coordinate{
		geo.NewCoordinate(11.50, 104.80),
		geo.NewCoordinate(11.52, 104.80),
		geo.NewCoordinate(11.52, 104.82),
	}
	g, err := da.NewGraph("test-v1",
		[]da.Node{
			da.NewNode(1, 11.50, 104.80),
			da.NewNode(2, 11.52, 104.82),
		},
		[]da.Edge{da.NewEdge(1, 2, 0, curve)},
		true)
	require.NoError(t, err)
	engine := NewEngine(g)

	// on the detour corner, far from the straight 1-2 chord
	assert.True(t, engine.PointOnEdge(11.52, 104.80, 25))
}

func TestPointOnEdgeWithSpatialIndex(t *testing.T) {
	g := testGraph(t)

	idx := spatialindex.NewRtree()
	idx.Build(g, 50, zap.NewNop())

	engine := NewEngineWithSpatialIndex(g, idx)

	assert.True(t, engine.PointOnEdge(11.505, 104.805, 25))
	assert.False(t, engine.PointOnEdge(11.60, 104.90, 25))
}
