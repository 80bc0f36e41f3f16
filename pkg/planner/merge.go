package planner

import (
	"math"

	"geopath/pkg/geodesy"
)

// lonLatDist is the Euclidean distance between two points in lon/lat space
// (degrees), not a great-circle distance. The merge tolerances in the
// reference algorithm operate directly on lon/lat deltas rather than
// converting to a metric distance first, so the merge stage matches that
// here instead of routing through geodesy.Distance.
func lonLatDist(a, b geodesy.LLA) float64 {
	dLon := a.Lon - b.Lon
	dLat := a.Lat - b.Lat
	return math.Sqrt(dLon*dLon + dLat*dLat)
}

// cross2D returns the magnitude of the 2D cross product (p2-p1) x (p3-p2) in
// lon/lat space; a value near zero means p1, p2, p3 are colinear.
func cross2D(p1, p2, p3 geodesy.LLA) float64 {
	ax, ay := p2.Lon-p1.Lon, p2.Lat-p1.Lat
	bx, by := p3.Lon-p2.Lon, p3.Lat-p2.Lat
	return ax*by - ay*bx
}

const (
	smartDupTol      = 1e-4
	smartColinearTol = 1e-6
	perSegDupTol     = 1e-5
	perSegStitchTol  = 1e-5
)

// dropColinear removes interior vertices whose cross-product magnitude with
// their neighbors falls below tol, collapsing runs of near-straight points
// into their endpoints. First and last points are always kept.
func dropColinear(pts []geodesy.LLA, tol float64) []geodesy.LLA {
	if len(pts) < 3 {
		return pts
	}
	out := []geodesy.LLA{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if math.Abs(cross2D(out[len(out)-1], pts[i], pts[i+1])) < tol {
			continue
		}
		out = append(out, pts[i])
	}
	out = append(out, pts[len(pts)-1])
	return out
}

// dropNearDuplicates removes any point within dist of its predecessor,
// always keeping the first point.
func dropNearDuplicates(pts []geodesy.LLA, dist float64) []geodesy.LLA {
	if len(pts) == 0 {
		return pts
	}
	out := []geodesy.LLA{pts[0]}
	for i := 1; i < len(pts); i++ {
		if lonLatDist(out[len(out)-1], pts[i]) < dist {
			continue
		}
		out = append(out, pts[i])
	}
	return out
}

// MergeTrajectoriesSmart concatenates segments into one polyline, stitching
// adjacent segments when one's tail matches the next's head, dropping
// near-duplicate successors, and collapsing colinear interior vertices. This
// is the variant plan_paired uses.
func MergeTrajectoriesSmart(segments [][]geodesy.LLA) []geodesy.LLA {
	var all []geodesy.LLA
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if len(all) > 0 && lonLatDist(all[len(all)-1], seg[0]) < smartDupTol {
			all = append(all, seg[1:]...)
		} else {
			all = append(all, seg...)
		}
	}
	all = dropNearDuplicates(all, smartDupTol)
	return dropColinear(all, smartColinearTol)
}

// MergeTrajectory filters each segment individually (duplicates, colinear
// interior points), then stitches consecutive segments whose tail-head gap
// falls under perSegStitchTol. It is the per-segment counterpart to
// MergeTrajectoriesSmart, kept for callers matching the reference's second
// merge algorithm.
func MergeTrajectory(segments [][]geodesy.LLA) []geodesy.LLA {
	filtered := make([][]geodesy.LLA, 0, len(segments))
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		clean := dropNearDuplicates(seg, perSegDupTol)
		clean = dropColinear(clean, smartColinearTol)
		filtered = append(filtered, clean)
	}

	var out []geodesy.LLA
	for _, seg := range filtered {
		if len(out) > 0 && lonLatDist(out[len(out)-1], seg[0]) < perSegStitchTol {
			out = append(out, seg[1:]...)
		} else {
			out = append(out, seg...)
		}
	}
	return out
}

// clampAltitudes clamps every point's altitude into [threshold, 0], capping
// output altitude at zero regardless of the input hint.
func clampAltitudes(pts []geodesy.LLA, threshold float64) {
	for i := range pts {
		pts[i].Alt = geodesy.Clamp(pts[i].Alt, threshold, 0)
	}
}
