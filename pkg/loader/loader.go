package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/util"
)

// node-link JSON, the shape emitted by networkx/osmnx exports: nodes carry
// x=lon / y=lat, links an optional length, osmid and [lon, lat] geometry.
type rawGraph struct {
	Directed bool      `json:"directed"`
	Nodes    []rawNode `json:"nodes"`
	Links    []rawLink `json:"links"`
}

type rawNode struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type rawLink struct {
	Source   int64       `json:"source"`
	Target   int64       `json:"target"`
	Length   float64     `json:"length"`
	OsmID    int64       `json:"osmid"`
	Geometry [][]float64 `json:"geometry"`
}

// FromJSON decodes a node-link document and builds a validated graph. The
// identity token is derived from the document bytes, so a reloaded snapshot
// keys the cache the same way and a changed one does not.
func FromJSON(data []byte) (*da.Graph, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
			"expected a graph object with nodes and links, got something else")
	}

	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInvalidGraph,
			"malformed node-link graph document")
	}

	nodes := make([]da.Node, 0, len(raw.Nodes))
	for _, n := range raw.Nodes {
		nodes = append(nodes, da.NewNode(n.ID, n.Y, n.X))
	}

	edges := make([]da.Edge, 0, len(raw.Links))
	for _, l := range raw.Links {
		var geometry []geo.Coordinate
		for _, p := range l.Geometry {
			if len(p) != 2 {
				return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
					"edge (%d, %d) geometry point is not a [lon, lat] pair", l.Source, l.Target)
			}
			geometry = append(geometry, geo.NewCoordinate(p[1], p[0]))
		}
		edges = append(edges, da.NewEdgeWithOsmID(l.Source, l.Target, l.Length, geometry, l.OsmID))
	}

	return da.NewGraph(identityToken(data), nodes, edges, raw.Directed)
}

func FromFile(path string) (*da.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph snapshot: %w", err)
	}
	return FromJSON(data)
}

func identityToken(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("g%016x", h.Sum64())
}
