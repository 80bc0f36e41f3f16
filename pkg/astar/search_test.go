package astar

import (
	"math"
	"testing"

	"geopath/pkg/grid"
)

func TestHeuristicIdx_DiagonalCheckValue(t *testing.T) {
	got := HeuristicIdx(0, 0, 3, 3, 1, 1)
	want := 4.2426
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("HeuristicIdx(0,0,3,3,1,1) = %.4f, want ~%.4f", got, want)
	}
}

func TestHeuristicIdx_Symmetric(t *testing.T) {
	a := HeuristicIdx(1, 1, 5, 4, 1, 1)
	b := HeuristicIdx(5, 4, 1, 1, 1, 1)
	if a != b {
		t.Errorf("heuristic should be symmetric: %v != %v", a, b)
	}
}

func TestHeuristicIdx_ScalesByGap(t *testing.T) {
	uniform := HeuristicIdx(0, 0, 3, 3, 1, 1)
	scaled := HeuristicIdx(0, 0, 3, 3, 2, 0.5)
	if scaled == uniform {
		t.Error("expected per-axis gap scaling to change the heuristic value")
	}
}

// openGrid builds a grid with every cell traversable (altitude 0, threshold 1).
func openGrid(w, h int) *grid.Grid {
	g := grid.NewSized(1, w, h)
	g.GapLon, g.GapLat = 0.01, 0.01
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			g.Set(x, y, g.IndexToLLA(x, y))
		}
	}
	return g
}

func TestPathPlan_StraightLineOnOpenGrid(t *testing.T) {
	g := openGrid(10, 10)
	s := New(g)
	s.SetStartIdx(0, 0)
	s.SetEndIdx(9, 9)

	path, ok := s.PathPlan()
	if !ok {
		t.Fatal("expected a path on an open grid")
	}
	if path[0] != [2]int{0, 0} || path[len(path)-1] != [2]int{9, 9} {
		t.Errorf("path endpoints = %v .. %v, want (0,0)..(9,9)", path[0], path[len(path)-1])
	}
	// diagonal-open path should take the direct diagonal: 10 cells.
	if len(path) != 10 {
		t.Errorf("expected a 10-cell diagonal path, got %d cells", len(path))
	}
}

func TestPathPlan_SameCell(t *testing.T) {
	g := openGrid(5, 5)
	s := New(g)
	s.SetStartIdx(2, 2)
	s.SetEndIdx(2, 2)

	path, ok := s.PathPlan()
	if !ok || len(path) != 1 {
		t.Fatalf("expected a single-cell path, got %v, ok=%v", path, ok)
	}
}

// maze scenario: a wall with a single gap forces the path to detour.
func TestPathPlan_MazeScenario(t *testing.T) {
	g := openGrid(9, 9)
	// Build a vertical wall at x=4, with a gap at y=4.
	for y := 0; y < 9; y++ {
		if y == 4 {
			continue
		}
		cell := g.IndexToLLA(4, y)
		cell.Alt = 100
		g.Set(4, y, cell)
	}

	s := New(g)
	s.SetStartIdx(0, 0)
	s.SetEndIdx(8, 8)

	path, ok := s.PathPlan()
	if !ok {
		t.Fatal("expected a path through the gap")
	}
	foundGap := false
	for _, p := range path {
		if p[0] == 4 && p[1] == 4 {
			foundGap = true
		}
		if p[0] == 4 && p[1] != 4 {
			t.Fatalf("path crossed the wall at (4,%d) instead of through the gap", p[1])
		}
	}
	if !foundGap {
		t.Error("expected path to pass through the wall's gap at (4,4)")
	}
}

func TestPathPlan_NoPathWhenFullyWalled(t *testing.T) {
	g := openGrid(5, 5)
	for y := 0; y < 5; y++ {
		cell := g.IndexToLLA(2, y)
		cell.Alt = 100
		g.Set(2, y, cell)
	}

	s := New(g)
	s.SetStartIdx(0, 0)
	s.SetEndIdx(4, 4)

	if _, ok := s.PathPlan(); ok {
		t.Error("expected no path when the grid is fully walled off")
	}
}

func TestPathPlan_AllowsCornerCutting(t *testing.T) {
	g := openGrid(3, 3)
	// block the two cells adjacent to the diagonal step from (0,0) to (1,1);
	// the diagonal move itself is still a valid 8-connected expansion.
	blocked := g.IndexToLLA(1, 0)
	blocked.Alt = 100
	g.Set(1, 0, blocked)
	blocked = g.IndexToLLA(0, 1)
	blocked.Alt = 100
	g.Set(0, 1, blocked)

	s := New(g)
	s.SetStartIdx(0, 0)
	s.SetEndIdx(1, 1)

	path, ok := s.PathPlan()
	if !ok {
		t.Fatal("expected the diagonal move to (1,1) to succeed despite both corners being blocked")
	}
	if len(path) != 2 || path[1] != [2]int{1, 1} {
		t.Errorf("expected a direct diagonal step to (1,1), got %v", path)
	}
}
