package astar

import (
	"container/heap"
	"math"

	"geopath/pkg/geodesy"
	"geopath/pkg/grid"
)

// boundaryCells returns the index-space coordinates of every cell on the
// grid's outer ring, in no particular order.
func boundaryCells(g *grid.Grid) [][2]int {
	var out [][2]int
	for x := 0; x < g.NumLon; x++ {
		out = append(out, [2]int{x, 0}, [2]int{x, g.NumLat - 1})
	}
	for y := 1; y < g.NumLat-1; y++ {
		out = append(out, [2]int{0, y}, [2]int{g.NumLon - 1, y})
	}
	return out
}

type boundEntry struct {
	x, y int
	f    float64
}

type boundHeap []boundEntry

func (h boundHeap) Len() int            { return len(h) }
func (h boundHeap) Less(i, j int) bool   { return h[i].f < h[j].f }
func (h boundHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *boundHeap) Push(v any)          { *h = append(*h, v.(boundEntry)) }
func (h *boundHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// TerminalCandidates generates an ordered list of fallback end cells for a
// local search: every traversable grid-boundary cell, sorted by f = g + h
// (g the index-space octile distance from (fromX, fromY), h the geodesic
// octile HeuristicLLA to terminus), plus the terminus's own cell pushed in if it falls inside
// the grid and is traversable. Once a candidate is popped, any contiguous
// traversable run along its incident edge is marked visited too, so a long
// open stretch of edge doesn't yield a run of near-duplicate candidates.
func TerminalCandidates(g *grid.Grid, fromX, fromY int, terminus geodesy.LLA) [][2]int {
	h := &boundHeap{}
	heap.Init(h)
	queued := make(map[int]bool)

	push := func(x, y int) {
		if !g.Moveable(x, y) {
			return
		}
		idx := g.PackIndex(x, y)
		if queued[idx] {
			return
		}
		queued[idx] = true
		gCost := HeuristicIdx(fromX, fromY, x, y, g.GapLon, g.GapLat)
		hCost := HeuristicLLA(g.IndexToLLA(x, y), terminus)
		heap.Push(h, boundEntry{x: x, y: y, f: gCost + hCost})
	}

	if tx, ty, ok := g.GetIndex(terminus.Lon, terminus.Lat); ok {
		push(tx, ty)
	}
	for _, c := range boundaryCells(g) {
		push(c[0], c[1])
	}

	visited := make(map[int]bool)
	var out [][2]int
	for h.Len() > 0 {
		e := heap.Pop(h).(boundEntry)
		idx := g.PackIndex(e.x, e.y)
		if visited[idx] {
			continue
		}
		out = append(out, [2]int{e.x, e.y})
		markEdgeRun(g, e.x, e.y, visited)
	}
	return out
}

// markEdgeRun marks e.x,e.y and every contiguous traversable cell along its
// incident grid edge as visited, in both directions.
func markEdgeRun(g *grid.Grid, x, y int, visited map[int]bool) {
	visited[g.PackIndex(x, y)] = true

	mark := func(dx, dy int) {
		cx, cy := x+dx, y+dy
		for g.Moveable(cx, cy) {
			idx := g.PackIndex(cx, cy)
			if visited[idx] {
				break
			}
			visited[idx] = true
			cx += dx
			cy += dy
		}
	}

	if x == 0 || x == g.NumLon-1 {
		mark(0, 1)
		mark(0, -1)
	}
	if y == 0 || y == g.NumLat-1 {
		mark(1, 0)
		mark(-1, 0)
	}
}

// GetTerminalBound returns the single best boundary candidate toward target
// from (fromX, fromY); it is TerminalCandidates's first result.
func GetTerminalBound(g *grid.Grid, fromX, fromY int, target geodesy.LLA) (x, y int, ok bool) {
	candidates := TerminalCandidates(g, fromX, fromY, target)
	if len(candidates) == 0 {
		return 0, 0, false
	}
	return candidates[0][0], candidates[0][1], true
}

// TerminalReset relocates terminus into a traversable grid cell. If its
// mapped cell is already traversable, it is returned unchanged. Otherwise it
// scans along the grid edge the cell sits on, toward the quadrant the NED
// projection of terminus relative to origin indicates: a horizontal edge
// (top or bottom row) is scanned along x, a vertical edge along y. If that
// scan fails, it retries the same edges with both directions reversed, so a
// point that overshoots past one corner can still resolve toward the other
// end of its edge instead of failing outright.
func TerminalReset(g *grid.Grid, origin, terminus geodesy.LLA) (rx, ry int, ok bool) {
	x0, y0 := clampedIndex(g, terminus)
	if g.Moveable(x0, y0) {
		return x0, y0, true
	}

	ned := geodesy.LLAToNED(origin, terminus)
	top := ned.E > 0
	right := ned.N > 0

	if rx, ry, ok := scanTerminalEdges(g, x0, y0, top, right); ok {
		return rx, ry, true
	}
	if rx, ry, ok := scanTerminalEdges(g, x0, y0, !top, !right); ok {
		return rx, ry, true
	}
	return x0, y0, false
}

// clampedIndex maps lla to its nearest grid cell, clamped into range, the
// way get_index(lla, if_clamp=True) does in the reference implementation.
func clampedIndex(g *grid.Grid, lla geodesy.LLA) (x, y int) {
	if g.GapLon != 0 {
		x = int(math.Round((lla.Lon - g.OriginLon) / g.GapLon))
	}
	if g.GapLat != 0 {
		y = int(math.Round((lla.Lat - g.OriginLat) / g.GapLat))
	}
	return clampInt(x, 0, g.NumLon-1), clampInt(y, 0, g.NumLat-1)
}

// scanTerminalEdges searches the horizontal edge through (x0,y0) along x
// (toward increasing x if right, else decreasing) when that cell sits on
// the top or bottom row, then the vertical edge through it along y (toward
// increasing y if top, else decreasing) when it sits on the left or right
// column, returning the first traversable cell either scan finds.
func scanTerminalEdges(g *grid.Grid, x0, y0 int, top, right bool) (rx, ry int, ok bool) {
	if y0 == 0 || y0 == g.NumLat-1 {
		if i, ok := scanAxis(x0, g.NumLon-1, right, func(i int) bool { return g.Moveable(i, y0) }); ok {
			return i, y0, true
		}
	}
	if x0 == 0 || x0 == g.NumLon-1 {
		if j, ok := scanAxis(y0, g.NumLat-1, top, func(j int) bool { return g.Moveable(x0, j) }); ok {
			return x0, j, true
		}
	}
	return 0, 0, false
}

// scanAxis walks from start toward max (if forward) or toward 0 (otherwise),
// returning the first index moveable reports true for.
func scanAxis(start, max int, forward bool, moveable func(int) bool) (int, bool) {
	if forward {
		for i := start; i <= max; i++ {
			if moveable(i) {
				return i, true
			}
		}
		return 0, false
	}
	for i := start; i >= 0; i-- {
		if moveable(i) {
			return i, true
		}
	}
	return 0, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
