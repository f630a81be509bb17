package loader

import (
	"testing"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"directed": true,
	"nodes": [
		{"id": 1, "x": 104.80, "y": 11.50},
		{"id": 2, "x": 104.81, "y": 11.51}
	],
	"links": [
		{
			"source": 1, "target": 2, "length": 100, "osmid": 908,
			"geometry": [[104.80, 11.50], [104.805, 11.505], [104.81, 11.51]]
		}
	]
}`

func TestFromJSON(t *testing.T) {
	g, err := FromJSON([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumNodes())
	assert.Equal(t, 1, g.NumEdges())
	assert.True(t, g.Directed())

	node, ok := g.NodeByID(1)
	require.True(t, ok)
	assert.Equal(t, 11.50, node.GetLat())
	assert.Equal(t, 104.80, node.GetLon())

	edge, ok := g.EdgeBetween(1, 2)
	require.True(t, ok)
	assert.Equal(t, 100.0, edge.GetWeight())
	assert.Equal(t, geo.NewCoordinate(11.505, 104.805), edge.GetGeometry()[1])

	source, target, ok := g.EdgeEndpointsByOsmID(908)
	require.True(t, ok)
	assert.Equal(t, da.NodeID(1), source)
	assert.Equal(t, da.NodeID(2), target)
}

func TestFromJSONRejectsBareList(t *testing.T) {
	_, err := FromJSON([]byte(`[{"id": 1}]`))
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrInvalidGraph)
}

func TestFromJSONRejectsMalformedDocument(t *testing.T) {
	_, err := FromJSON([]byte(`{"nodes": "not a list"}`))
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrInvalidGraph)
}

func TestFromJSONRejectsBadGeometryPair(t *testing.T) {
	doc := `{
		"directed": true,
		"nodes": [{"id": 1, "x": 104.80, "y": 11.50}, {"id": 2, "x": 104.81, "y": 11.51}],
		"links": [{"source": 1, "target": 2, "geometry": [[104.80]]}]
	}`
	_, err := FromJSON([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrInvalidGraph)
}

func TestFromJSONRejectsDanglingLink(t *testing.T) {
	doc := `{
		"directed": true,
		"nodes": [{"id": 1, "x": 104.80, "y": 11.50}],
		"links": [{"source": 1, "target": 99, "length": 5}]
	}`
	_, err := FromJSON([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, util.ErrCodeOf(err), util.ErrInvalidGraph)
}

func TestIdentityTokenStability(t *testing.T) {
	first, err := FromJSON([]byte(sampleDocument))
	require.NoError(t, err)
	second, err := FromJSON([]byte(sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())

	changed, err := FromJSON([]byte(sampleDocument + " "))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), changed.ID())
}
