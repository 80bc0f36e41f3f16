package astar

import (
	"container/heap"
	"fmt"

	"geopath/pkg/geodesy"
	"geopath/pkg/grid"
)

// Search runs repeated A* queries against a single grid; each PathPlan call
// allocates fresh working sets.
type Search struct {
	Grid *grid.Grid

	StartX, StartY int
	EndX, EndY     int
}

// New creates a Search bound to g. SetStart/SetEnd (or their Idx variants)
// must be called before PathPlan.
func New(g *grid.Grid) *Search {
	return &Search{Grid: g}
}

// SetStart maps a lon/lat to a grid cell and records it as the search origin.
func (s *Search) SetStart(lon, lat float64) error {
	x, y, ok := s.Grid.GetIndex(lon, lat)
	if !ok {
		return fmt.Errorf("astar: start (%.6f,%.6f) falls outside the grid", lon, lat)
	}
	s.StartX, s.StartY = x, y
	return nil
}

// SetStartIdx records (x, y) directly as the search origin.
func (s *Search) SetStartIdx(x, y int) {
	s.StartX, s.StartY = x, y
}

// SetEnd maps a lon/lat to a grid cell and records it as the search target.
func (s *Search) SetEnd(lon, lat float64) error {
	x, y, ok := s.Grid.GetIndex(lon, lat)
	if !ok {
		return fmt.Errorf("astar: end (%.6f,%.6f) falls outside the grid", lon, lat)
	}
	s.EndX, s.EndY = x, y
	return nil
}

// SetEndIdx records (x, y) directly as the search target.
func (s *Search) SetEndIdx(x, y int) {
	s.EndX, s.EndY = x, y
}

// pqEntry is a single open-set entry. seq breaks ties between equal f-scores
// in FIFO order, matching the order cells were first discovered in.
type pqEntry struct {
	x, y  int
	f     float64
	seq   int
	index int
}

type openHeap []*pqEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(v any) {
	e := v.(*pqEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// startSentinel marks the parent-of-start entry in cameFrom: the start cell
// maps to -1, which is never a packed index, so it has no predecessor.
const startSentinel = -1

// PathPlan runs A* from (StartX, StartY) to (EndX, EndY) and returns the
// path as a sequence of grid indices, including both endpoints. ok is false
// if no path was found.
func (s *Search) PathPlan() (path [][2]int, ok bool) {
	g := s.Grid
	startIdx := g.PackIndex(s.StartX, s.StartY)
	endIdx := g.PackIndex(s.EndX, s.EndY)

	if !g.Moveable(s.StartX, s.StartY) || !g.Moveable(s.EndX, s.EndY) {
		return nil, false
	}
	if startIdx == endIdx {
		return [][2]int{{s.StartX, s.StartY}}, true
	}

	gScore := map[int]float64{startIdx: 0}
	cameFrom := map[int]int{startIdx: startSentinel}
	closed := make(map[int]bool)

	open := &openHeap{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pqEntry{x: s.StartX, y: s.StartY, f: HeuristicIdx(s.StartX, s.StartY, s.EndX, s.EndY, g.GapLon, g.GapLat), seq: seq})

	// Reconstruction can never legitimately need more hops than there are
	// cells in the grid; this bounds a malformed cameFrom chain instead of
	// looping forever.
	maxChainLen := g.NumLon*g.NumLat + 5

	for open.Len() > 0 {
		current := heap.Pop(open).(*pqEntry)
		curIdx := g.PackIndex(current.x, current.y)

		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true

		if curIdx == endIdx {
			return reconstructPath(g, cameFrom, s.StartX, s.StartY, s.EndX, s.EndY, maxChainLen)
		}

		for _, d := range grid.Dir8 {
			nx, ny := current.x+d[0], current.y+d[1]
			if !g.Moveable(nx, ny) {
				continue
			}

			nIdx := g.PackIndex(nx, ny)
			if closed[nIdx] {
				continue
			}

			tentativeG := gScore[curIdx] + HeuristicIdx(current.x, current.y, nx, ny, g.GapLon, g.GapLat)
			existingG, seen := gScore[nIdx]
			if seen && tentativeG >= existingG {
				continue
			}

			gScore[nIdx] = tentativeG
			cameFrom[nIdx] = curIdx
			seq++
			heap.Push(open, &pqEntry{x: nx, y: ny, f: tentativeG + HeuristicIdx(nx, ny, s.EndX, s.EndY, g.GapLon, g.GapLat), seq: seq})
		}
	}

	return nil, false
}

func reconstructPath(g *grid.Grid, cameFrom map[int]int, startX, startY, endX, endY, maxChainLen int) ([][2]int, bool) {
	startIdx := g.PackIndex(startX, startY)
	endIdx := g.PackIndex(endX, endY)

	var rev [][2]int
	cur := endIdx
	for i := 0; ; i++ {
		if i > maxChainLen {
			return nil, false
		}
		x, y := cur/g.NumLat, cur%g.NumLat
		rev = append(rev, [2]int{x, y})
		if cur == startIdx {
			break
		}
		parent, ok := cameFrom[cur]
		if !ok {
			return nil, false
		}
		cur = parent
	}

	path := make([][2]int, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path, true
}

// Search runs PathPlan and converts the resulting index path into geographic
// coordinates.
func (s *Search) Search() ([]geodesy.LLA, bool) {
	path, ok := s.PathPlan()
	if !ok {
		return nil, false
	}
	out := make([]geodesy.LLA, len(path))
	for i, p := range path {
		out[i] = s.Grid.IndexToLLA(p[0], p[1])
	}
	return out, true
}
