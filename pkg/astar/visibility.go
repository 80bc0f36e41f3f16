package astar

import (
	"math"

	"github.com/paulmach/orb"

	"geopath/pkg/geodesy"
	"geopath/pkg/grid"
)

// StraightCheck reports whether the straight line between two cells, sampled
// at index-space resolution, crosses only traversable cells. It lets the
// planner skip a full A* search whenever a segment's endpoints already have
// unobstructed line of sight.
func StraightCheck(g *grid.Grid, x1, y1, x2, y2 int) bool {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)

	samples := int(math.Max(math.Max(math.Abs(dx), math.Abs(dy)), 20))

	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		x := int(math.Round(float64(x1) + t*dx))
		y := int(math.Round(float64(y1) + t*dy))
		if !g.Moveable(x, y) {
			return false
		}
	}
	return true
}

// StraightPath builds the direct-line segment between two cells when
// StraightCheck reports unobstructed line of sight, snapping each sampled
// point to its nearest grid cell's stored LLA. It returns ok=false if any
// cell along the line is unobstructed but has not actually been sampled, or
// if a snapped waypoint strays from the ideal line beyond tolerance.
func StraightPath(g *grid.Grid, x1, y1, x2, y2 int) (path []geodesy.LLA, ok bool) {
	if !StraightCheck(g, x1, y1, x2, y2) {
		return nil, false
	}

	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	samples := int(math.Max(math.Max(math.Abs(dx), math.Abs(dy)), 20))

	a := g.IndexToLLA(x1, y1)
	b := g.IndexToLLA(x2, y2)
	line := [2]orb.Point{{a.Lon, a.Lat}, {b.Lon, b.Lat}}

	// A cell snapped by rounding its index to the nearest integer can stray
	// up to roughly half a cell's diagonal from the ideal line.
	deviationTol := math.Hypot(g.GapLon, g.GapLat)

	out := make([]geodesy.LLA, 0, samples+1)
	lastX, lastY := x1-1, y1-1
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		x := int(math.Round(float64(x1) + t*dx))
		y := int(math.Round(float64(y1) + t*dy))
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y

		if !g.Filled(x, y) {
			return nil, false
		}
		cell := g.Cell(x, y)
		if geodesy.DistanceToSegment(orb.Point{cell.Lon, cell.Lat}, line[0], line[1]) > deviationTol {
			return nil, false
		}
		out = append(out, cell)
	}
	if len(out) < 2 {
		return nil, false
	}
	return out, true
}
