package geodesy

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DistanceToSegment returns the planar (degree-space) distance from p to the
// line segment a-b. Used by straight-line path construction to measure how
// far a snapped sample point strays from the segment under test.
func DistanceToSegment(p, a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]

	if dx == 0 && dy == 0 {
		return planar.Distance(p, a)
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)

	if t < 0 {
		return planar.Distance(p, a)
	} else if t > 1 {
		return planar.Distance(p, b)
	}

	closest := orb.Point{a[0] + t*dx, a[1] + t*dy}
	return planar.Distance(p, closest)
}
