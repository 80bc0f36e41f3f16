// Package astar runs 8-connected A* over a grid.Grid with an octile
// heuristic, and provides the terminus-relocation and line-of-sight helpers
// the incremental planner uses to stitch grid-sized segments together.
package astar

import (
	"math"

	"geopath/pkg/geodesy"
)

const sqrt2MinusTwo = math.Sqrt2 - 2

// HeuristicIdx returns the octile distance between two cells, scaling each
// axis by the grid's own cell spacing so the heuristic reflects the actual
// geographic distance a step covers rather than a uniform step count.
func HeuristicIdx(x1, y1, x2, y2 int, gapLon, gapLat float64) float64 {
	lenLon := math.Abs(float64(x1-x2)) * gapLon
	lenLat := math.Abs(float64(y1-y2)) * gapLat
	return sqrt2MinusTwo*math.Min(lenLon, lenLat) + lenLon + lenLat
}

// HeuristicLLA returns the geodesic octile distance between two geographic
// points: the great-circle distance along each axis projection, combined
// the same way as HeuristicIdx. Exposed for boundary-candidate scoring; not
// used in the A* inner loop, which stays in index space.
func HeuristicLLA(a, b geodesy.LLA) float64 {
	lenLon := geodesy.Distance(a, geodesy.LLA{Lon: b.Lon, Lat: a.Lat})
	lenLat := geodesy.Distance(a, geodesy.LLA{Lon: a.Lon, Lat: b.Lat})
	return sqrt2MinusTwo*math.Min(lenLon, lenLat) + lenLon + lenLat
}
