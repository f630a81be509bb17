package datastructure

import (
	"github.com/rithy-sen/phnomroute/pkg"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/rithy-sen/phnomroute/pkg/util"
)

type NodeID = int64

type Node struct {
	id   NodeID
	lat  float64
	lon  float64
	temp bool
}

func NewNode(id NodeID, lat, lon float64) Node {
	return Node{id: id, lat: lat, lon: lon}
}

func NewTempNode(id NodeID, lat, lon float64) Node {
	return Node{id: id, lat: lat, lon: lon, temp: true}
}

func (n Node) GetID() NodeID {
	return n.id
}

func (n Node) GetLat() float64 {
	return n.lat
}

func (n Node) GetLon() float64 {
	return n.lon
}

func (n Node) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(n.lat, n.lon)
}

func (n Node) IsTemporary() bool {
	return n.temp
}

type Edge struct {
	source   NodeID
	target   NodeID
	weight   float64
	geometry []geo.Coordinate
	osmID    int64
	temp     bool
}

func NewEdge(source, target NodeID, weight float64, geometry []geo.Coordinate) Edge {
	return Edge{source: source, target: target, weight: weight, geometry: geometry}
}

func NewEdgeWithOsmID(source, target NodeID, weight float64, geometry []geo.Coordinate, osmID int64) Edge {
	return Edge{source: source, target: target, weight: weight, geometry: geometry, osmID: osmID}
}

func NewTempEdge(source, target NodeID, weight float64) Edge {
	return Edge{source: source, target: target, weight: weight, temp: true}
}

func (e Edge) GetSource() NodeID {
	return e.source
}

func (e Edge) GetTarget() NodeID {
	return e.target
}

func (e Edge) GetWeight() float64 {
	return e.weight
}

func (e Edge) GetGeometry() []geo.Coordinate {
	return e.geometry
}

func (e Edge) GetOsmID() int64 {
	return e.osmID
}

func (e Edge) IsTemporary() bool {
	return e.temp
}

// Arc is one adjacency entry: the neighbor reached and the edge weight to
// reach it.
type Arc struct {
	to     NodeID
	weight float64
}

func NewArc(to NodeID, weight float64) Arc {
	return Arc{to: to, weight: weight}
}

func (a Arc) GetTo() NodeID {
	return a.to
}

func (a Arc) GetWeight() float64 {
	return a.weight
}

// GraphView is the read surface shared by the base Graph and per-session
// augmented views. Implementations are safe for concurrent readers.
type GraphView interface {
	// ID is the graph identity token used in cache keys. For views holding
	// temporary nodes it also encodes their exact coordinates.
	ID() string
	Directed() bool
	NumNodes() int
	HasNode(id NodeID) bool
	NodeByID(id NodeID) (Node, bool)
	// ForNodes visits nodes in deterministic construction order until fn
	// returns false.
	ForNodes(fn func(Node) bool)
	ForEdges(fn func(Edge) bool)
	AdjacentTo(id NodeID) []Arc
	// EdgeBetween looks up the edge (u, v) in that exact direction.
	EdgeBetween(u, v NodeID) (Edge, bool)
	HasTemporary() bool
}

type edgeKey struct {
	source NodeID
	target NodeID
}

// Graph is an immutable road-network snapshot: validated at construction,
// shared read-only across routing sessions.
type Graph struct {
	id        string
	nodes     map[NodeID]Node
	nodeOrder []NodeID
	edges     []Edge
	edgeIndex map[edgeKey]int
	adj       map[NodeID][]Arc
	directed  bool
	minNodeID NodeID
}

// NewGraph validates the node/edge collections and builds the adjacency
// index in O(N+E). Duplicate node ids, invalid coordinates, negative weights
// and edges referencing unknown nodes are all rejected with ErrInvalidGraph.
func NewGraph(id string, nodes []Node, edges []Edge, directed bool) (*Graph, error) {
	g := &Graph{
		id:        id,
		nodes:     make(map[NodeID]Node, len(nodes)),
		nodeOrder: make([]NodeID, 0, len(nodes)),
		edges:     make([]Edge, 0, len(edges)),
		edgeIndex: make(map[edgeKey]int, len(edges)),
		adj:       make(map[NodeID][]Arc, len(nodes)),
		directed:  directed,
	}

	for _, n := range nodes {
		if _, ok := g.nodes[n.id]; ok {
			return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
				"duplicate node id %d", n.id)
		}
		if !geo.ValidCoordinate(n.lat, n.lon) {
			return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
				"node %d has invalid coordinate (%f, %f)", n.id, n.lat, n.lon)
		}
		g.nodes[n.id] = n
		g.nodeOrder = append(g.nodeOrder, n.id)
		if len(g.nodeOrder) == 1 || n.id < g.minNodeID {
			g.minNodeID = n.id
		}
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.source]; !ok {
			return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
				"edge (%d, %d) references unknown source node %d", e.source, e.target, e.source)
		}
		if _, ok := g.nodes[e.target]; !ok {
			return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
				"edge (%d, %d) references unknown target node %d", e.source, e.target, e.target)
		}
		if e.weight < 0 {
			return nil, util.WrapErrorf(nil, util.ErrInvalidGraph,
				"edge (%d, %d) has negative weight %f", e.source, e.target, e.weight)
		}
		if e.weight == 0 {
			if len(e.geometry) > 1 {
				e.weight = polylineLength(e.geometry)
			} else {
				e.weight = pkg.DEFAULT_EDGE_WEIGHT
			}
		}
		idx := len(g.edges)
		g.edges = append(g.edges, e)
		key := edgeKey{source: e.source, target: e.target}
		if _, ok := g.edgeIndex[key]; !ok {
			g.edgeIndex[key] = idx
		}
	}

	g.buildAdjacencyIndex()
	return g, nil
}

// buildAdjacencyIndex rebuilds the whole neighbor-list index from the edge
// sequence. Undirected graphs get the reverse arc appended too.
func (g *Graph) buildAdjacencyIndex() {
	g.adj = make(map[NodeID][]Arc, len(g.nodes))
	for _, e := range g.edges {
		g.adj[e.source] = append(g.adj[e.source], NewArc(e.target, e.weight))
		if !g.directed {
			g.adj[e.target] = append(g.adj[e.target], NewArc(e.source, e.weight))
		}
	}
}

func (g *Graph) ID() string {
	return g.id
}

func (g *Graph) Directed() bool {
	return g.directed
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) NodeByID(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) ForNodes(fn func(Node) bool) {
	for _, id := range g.nodeOrder {
		if !fn(g.nodes[id]) {
			return
		}
	}
}

func (g *Graph) ForEdges(fn func(Edge) bool) {
	for i := range g.edges {
		if !fn(g.edges[i]) {
			return
		}
	}
}

func (g *Graph) AdjacentTo(id NodeID) []Arc {
	return g.adj[id]
}

func (g *Graph) EdgeBetween(u, v NodeID) (Edge, bool) {
	idx, ok := g.edgeIndex[edgeKey{source: u, target: v}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[idx], true
}

func (g *Graph) HasTemporary() bool {
	return false
}

// EdgeEndpointsByOsmID returns the (source, target) pair of the first edge
// tagged with osmID.
func (g *Graph) EdgeEndpointsByOsmID(osmID int64) (NodeID, NodeID, bool) {
	for i := range g.edges {
		if g.edges[i].osmID == osmID {
			return g.edges[i].source, g.edges[i].target, true
		}
	}
	return 0, 0, false
}

// polylineLength is the geometry-derived edge length in meter.
func polylineLength(line []geo.Coordinate) float64 {
	total := 0.0
	for i := 0; i < len(line)-1; i++ {
		total += geo.CalculateHaversineDistance(line[i].Lat, line[i].Lon,
			line[i+1].Lat, line[i+1].Lon)
	}
	return total
}

func (g *Graph) minID() NodeID {
	if len(g.nodeOrder) == 0 {
		return 0
	}
	return g.minNodeID
}
