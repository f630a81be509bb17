package spatialindex

import (
	"math"

	"github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes every graph edge by the bounding box of its polyline so
// point-on-edge queries only test nearby edges.
type Rtree struct {
	tr *rtree.RTreeG[datastructure.Edge]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Edge]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts one bounding box per edge, grown by paddingMeter on every
// side so radius searches at the padding scale cannot miss a boundary edge.
func (rt *Rtree) Build(graph *datastructure.Graph, paddingMeter float64, log *zap.Logger) {
	log.Info("building R-tree spatial index over graph edges",
		zap.Int("edges", graph.NumEdges()))

	graph.ForEdges(func(e datastructure.Edge) bool {
		points := e.GetGeometry()
		if len(points) == 0 {
			src, okSrc := graph.NodeByID(e.GetSource())
			tgt, okTgt := graph.NodeByID(e.GetTarget())
			if !okSrc || !okTgt {
				return true
			}
			points = []geo.Coordinate{src.Coordinate(), tgt.Coordinate()}
		}

		minLat, minLon := math.Inf(1), math.Inf(1)
		maxLat, maxLon := math.Inf(-1), math.Inf(-1)
		for _, p := range points {
			minLat = math.Min(minLat, p.Lat)
			minLon = math.Min(minLon, p.Lon)
			maxLat = math.Max(maxLat, p.Lat)
			maxLon = math.Max(maxLon, p.Lon)
		}

		lowerLat, lowerLon := geo.GetDestinationPoint(minLat, minLon, 225, paddingMeter)
		upperLat, upperLon := geo.GetDestinationPoint(maxLat, maxLon, 45, paddingMeter)

		rt.tr.Insert([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat}, e)
		return true
	})

	log.Info("R-tree spatial index built")
}

// SearchWithinRadius returns all edges whose padded bounding box intersects
// the square of half-width radiusMeter around (qLat, qLon).
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radiusMeter float64) []datastructure.Edge {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radiusMeter)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radiusMeter)

	results := make([]datastructure.Edge, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.Edge) bool {
			results = append(results, data)
			return true
		})
	return results
}
