package routing

import (
	"fmt"

	"github.com/rithy-sen/phnomroute/pkg"
	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
)

// ShortestPath runs single-source dijkstra from origin to every reachable
// node and returns the distance and predecessor maps. Nodes the search never
// reached keep distance INF_WEIGHT and have no predecessor entry.
func (e *Engine) ShortestPath(origin da.NodeID) (map[da.NodeID]float64, map[da.NodeID]da.NodeID) {
	st := e.search(origin, origin, false)
	return st.dist, st.prev
}

// search is the dijkstra core. When earlyStop is set the search terminates as
// soon as target is settled; a full run is required whenever the result feeds
// the memo.
func (e *Engine) search(origin, target da.NodeID, earlyStop bool) searchState {
	n := e.view.NumNodes()
	st := searchState{
		dist: make(map[da.NodeID]float64, n),
		prev: make(map[da.NodeID]da.NodeID, n),
	}
	e.view.ForNodes(func(node da.Node) bool {
		st.dist[node.GetID()] = pkg.INF_WEIGHT
		return true
	})
	st.dist[origin] = 0

	pq := da.NewFourAryHeap[da.NodeID]()
	labels := make(map[da.NodeID]*da.PriorityQueueNode[da.NodeID], n)

	originNode := da.NewPriorityQueueNode(0, origin)
	labels[origin] = originNode
	pq.Insert(originNode)

	for !pq.IsEmpty() {
		minNode, err := pq.ExtractMin()
		if err != nil {
			break
		}
		u := minNode.GetItem()
		uDist := minNode.GetRank()

		if uDist > st.dist[u] {
			// stale entry
			continue
		}
		if earlyStop && u == target {
			break
		}

		for _, arc := range e.view.AdjacentTo(u) {
			v := arc.GetTo()
			alt := uDist + arc.GetWeight()
			best, known := st.dist[v]
			if !known {
				// adjacency points at a node outside the node set; leave it
				// to the caller's corruption check during reconstruction
				continue
			}
			if alt < best {
				st.dist[v] = alt
				st.prev[v] = u
				if label, ok := labels[v]; ok && label.GetPos() >= 0 {
					pq.DecreaseKey(label, alt)
				} else {
					label := da.NewPriorityQueueNode(alt, v)
					labels[v] = label
					pq.Insert(label)
				}
			}
		}
	}

	return st
}

// memoKey identifies one full single-source run.
func memoKey(graphID string, origin da.NodeID) string {
	return fmt.Sprintf("%s|%d", graphID, origin)
}

// ReconstructPath walks predecessor links from target back to the search
// origin and returns the path in forward order.
func ReconstructPath(previous map[da.NodeID]da.NodeID, target da.NodeID) []da.NodeID {
	path := []da.NodeID{target}
	current := target
	for {
		parent, ok := previous[current]
		if !ok {
			break
		}
		path = append(path, parent)
		current = parent
	}
	return reverseInPlace(path)
}

func reverseInPlace(path []da.NodeID) []da.NodeID {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
