package datastructure

import (
	"github.com/rithy-sen/phnomroute/pkg/geo"
)

// Route is a computed shortest path: Path[0] is the origin, Path[len-1] the
// destination, TotalLength the sum of traversed edge weights, Geometry the
// stitched polyline.
type Route struct {
	Path        []NodeID         `json:"path"`
	TotalLength float64          `json:"total_length"`
	Geometry    []geo.Coordinate `json:"geometry"`
}

func NewRoute(path []NodeID, totalLength float64, geometry []geo.Coordinate) Route {
	return Route{
		Path:        path,
		TotalLength: totalLength,
		Geometry:    geometry,
	}
}

func (r Route) NodesCount() int {
	return len(r.Path)
}
