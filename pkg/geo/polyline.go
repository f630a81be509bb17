package geo

import (
	gopolyline "github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coords as a google encoded polyline.
func PolylineFromCoords(coords []Coordinate) string {
	latLngs := make([][]float64, len(coords))
	for i, c := range coords {
		latLngs[i] = []float64{c.Lat, c.Lon}
	}
	return string(gopolyline.EncodeCoords(latLngs))
}
