package datastructure

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rithy-sen/phnomroute/pkg"
	"github.com/rithy-sen/phnomroute/pkg/geo"
)

// AugmentedGraph layers per-session temporary nodes and connector edges over
// an immutable base graph without copying or mutating it. One instance serves
// exactly one routing session; it must not be shared across concurrent
// sessions.
type AugmentedGraph struct {
	base *Graph

	tempNodes []Node
	tempSet   map[NodeID]Node
	tempEdges []Edge

	// overlayAdj holds the full neighbor list of every node touched by a
	// temporary edge. Rebuilt from scratch on every overlay change, never
	// patched, so it cannot diverge from the temp set.
	overlayAdj map[NodeID][]Arc

	minID NodeID
}

func NewAugmentedGraph(base *Graph) *AugmentedGraph {
	ag := &AugmentedGraph{
		base: base,
	}
	ag.reset()
	return ag
}

func (ag *AugmentedGraph) reset() {
	ag.tempNodes = nil
	ag.tempEdges = nil
	ag.tempSet = make(map[NodeID]Node)
	ag.overlayAdj = make(map[NodeID][]Arc)
	ag.minID = ag.base.minID()
	if ag.minID > 0 {
		ag.minID = 0
	}
}

// AddTempPoint inserts a synthetic node at (lat, lon) with an id strictly
// below every id in use. When connect is set, bidirectional connector edges
// are created to every real node within radiusMeter (geodesic); if none is
// found the radius is doubled a bounded number of times, after which the
// point stays isolated and later routing reports it unreachable.
func (ag *AugmentedGraph) AddTempPoint(lat, lon float64, connect bool, radiusMeter float64) NodeID {
	newID := ag.minID - 1
	ag.minID = newID

	node := NewTempNode(newID, lat, lon)
	ag.tempNodes = append(ag.tempNodes, node)
	ag.tempSet[newID] = node

	if connect {
		ag.connectTempPoint(newID, lat, lon, radiusMeter)
	}
	ag.rebuildOverlayIndex()
	return newID
}

func (ag *AugmentedGraph) connectTempPoint(id NodeID, lat, lon, radiusMeter float64) {
	radius := radiusMeter
	for attempt := 0; attempt < pkg.TEMP_CONNECT_MAX_ATTEMPTS; attempt++ {
		connected := false
		ag.base.ForNodes(func(n Node) bool {
			dist := geo.CalculateHaversineDistance(lat, lon, n.GetLat(), n.GetLon())
			if dist <= radius {
				// straight-line connector, weighted by its geodesic length
				ag.tempEdges = append(ag.tempEdges, NewTempEdge(id, n.GetID(), dist))
				ag.tempEdges = append(ag.tempEdges, NewTempEdge(n.GetID(), id, dist))
				connected = true
			}
			return true
		})
		if connected {
			return
		}
		radius *= 2
	}
}

// ClearTempPoints drops the whole overlay so the view can be reused for an
// independent query against the same base graph.
func (ag *AugmentedGraph) ClearTempPoints() {
	ag.reset()
}

func (ag *AugmentedGraph) rebuildOverlayIndex() {
	ag.overlayAdj = make(map[NodeID][]Arc, len(ag.tempEdges))
	for _, e := range ag.tempEdges {
		if _, ok := ag.overlayAdj[e.source]; !ok {
			base := ag.base.AdjacentTo(e.source)
			list := make([]Arc, len(base))
			copy(list, base)
			ag.overlayAdj[e.source] = list
		}
		ag.overlayAdj[e.source] = append(ag.overlayAdj[e.source], NewArc(e.target, e.weight))
	}
}

func (ag *AugmentedGraph) Base() *Graph {
	return ag.base
}

func (ag *AugmentedGraph) TempNodeCount() int {
	return len(ag.tempNodes)
}

// ID extends the base identity token with the exact overlay coordinates, so
// cache entries from two different temporary-point sessions can never
// collide.
func (ag *AugmentedGraph) ID() string {
	if len(ag.tempNodes) == 0 {
		return ag.base.ID()
	}
	var sb strings.Builder
	sb.WriteString(ag.base.ID())
	sb.WriteString("+temp")
	for _, n := range ag.tempNodes {
		sb.WriteString(fmt.Sprintf(":%s,%s",
			strconv.FormatFloat(n.GetLat(), 'f', -1, 64),
			strconv.FormatFloat(n.GetLon(), 'f', -1, 64)))
	}
	return sb.String()
}

func (ag *AugmentedGraph) Directed() bool {
	return ag.base.Directed()
}

func (ag *AugmentedGraph) NumNodes() int {
	return ag.base.NumNodes() + len(ag.tempNodes)
}

func (ag *AugmentedGraph) HasNode(id NodeID) bool {
	if _, ok := ag.tempSet[id]; ok {
		return true
	}
	return ag.base.HasNode(id)
}

func (ag *AugmentedGraph) NodeByID(id NodeID) (Node, bool) {
	if n, ok := ag.tempSet[id]; ok {
		return n, true
	}
	return ag.base.NodeByID(id)
}

func (ag *AugmentedGraph) ForNodes(fn func(Node) bool) {
	stopped := false
	ag.base.ForNodes(func(n Node) bool {
		if !fn(n) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	for _, n := range ag.tempNodes {
		if !fn(n) {
			return
		}
	}
}

func (ag *AugmentedGraph) ForEdges(fn func(Edge) bool) {
	stopped := false
	ag.base.ForEdges(func(e Edge) bool {
		if !fn(e) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	for _, e := range ag.tempEdges {
		if !fn(e) {
			return
		}
	}
}

func (ag *AugmentedGraph) AdjacentTo(id NodeID) []Arc {
	if list, ok := ag.overlayAdj[id]; ok {
		return list
	}
	return ag.base.AdjacentTo(id)
}

func (ag *AugmentedGraph) EdgeBetween(u, v NodeID) (Edge, bool) {
	if e, ok := ag.base.EdgeBetween(u, v); ok {
		return e, true
	}
	for _, e := range ag.tempEdges {
		if e.source == u && e.target == v {
			return e, true
		}
	}
	return Edge{}, false
}

func (ag *AugmentedGraph) HasTemporary() bool {
	return len(ag.tempNodes) > 0
}
