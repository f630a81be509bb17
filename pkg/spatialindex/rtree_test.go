package spatialindex

import (
	"testing"

	"github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSearchWithinRadius(t *testing.T) {
	g, err := datastructure.NewGraph("test-v1",
		[]datastructure.Node{
			datastructure.NewNode(1, 11.50, 104.80),
			datastructure.NewNode(2, 11.51, 104.81),
			datastructure.NewNode(3, 11.90, 105.20),
			datastructure.NewNode(4, 11.91, 105.21),
		},
		[]datastructure.Edge{
			datastructure.NewEdge(1, 2, 100, nil),
			datastructure.NewEdge(3, 4, 100, nil),
		},
		true)
	require.NoError(t, err)

	rt := NewRtree()
	rt.Build(g, 50, zap.NewNop())

	// near the 1-2 edge, far from 3-4
	hits := rt.SearchWithinRadius(11.505, 104.805, 100)
	require.Len(t, hits, 1)
	assert.Equal(t, datastructure.NodeID(1), hits[0].GetSource())
	assert.Equal(t, datastructure.NodeID(2), hits[0].GetTarget())

	// tens of kilometers from every edge
	assert.Empty(t, rt.SearchWithinRadius(10.0, 103.0, 100))
}

func TestSearchUsesStoredGeometryBounds(t *testing.T) {
	curve := []geo.Coordinate{
		geo.NewCoordinate(11.50, 104.80),
		geo.NewCoordinate(11.55, 104.80),
		geo.NewCoordinate(11.55, 104.85),
	}
	g, err := datastructure.NewGraph("test-v1",
		[]datastructure.Node{
			datastructure.NewNode(1, 11.50, 104.80),
			datastructure.NewNode(2, 11.55, 104.85),
		},
		[]datastructure.Edge{datastructure.NewEdge(1, 2, 0, curve)},
		true)
	require.NoError(t, err)

	rt := NewRtree()
	rt.Build(g, 50, zap.NewNop())

	// the detour corner sits outside the straight 1-2 chord but inside
	// the polyline bounding box
	assert.Len(t, rt.SearchWithinRadius(11.55, 104.80, 100), 1)
}
