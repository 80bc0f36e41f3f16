package planner

import (
	"context"
	"math/rand"
	"testing"

	"geopath/pkg/geodesy"
	"geopath/pkg/maze"
)

func TestPlanPaired_MazeScenario(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := maze.New(20, 20, 0.02, rng)

	p := New(m, Config{QuerySize: 5})

	origin := geodesy.LLA{Lon: float64(m.Start[0]) * m.Step, Lat: float64(m.Start[1]) * m.Step, Alt: -5}
	terminus := geodesy.LLA{Lon: float64(m.End[0]) * m.Step, Lat: float64(m.End[1]) * m.Step, Alt: -6}

	path, ok := p.PlanPaired(context.Background(), origin, terminus, 0)
	if !ok {
		t.Fatal("expected plan_paired to find a path through the maze")
	}
	if len(path) < 2 {
		t.Fatalf("expected a multi-point path, got %d points", len(path))
	}
	if path[0].Lon != origin.Lon || path[0].Lat != origin.Lat {
		t.Errorf("path should start at the origin, got %+v", path[0])
	}
}

func TestPlanPaired_MazeScenarioWithH3Index(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := maze.New(20, 20, 0.02, rng)

	p := New(m, Config{QuerySize: 5, UseH3Index: true, H3BlockRes: 8, H3RingRadius: 2})

	origin := geodesy.LLA{Lon: float64(m.Start[0]) * m.Step, Lat: float64(m.Start[1]) * m.Step, Alt: -5}
	terminus := geodesy.LLA{Lon: float64(m.End[0]) * m.Step, Lat: float64(m.End[1]) * m.Step, Alt: -6}

	path, ok := p.PlanPaired(context.Background(), origin, terminus, 0)
	if !ok {
		t.Fatal("expected plan_paired to find a path through the maze using the H3 rasterization strategy")
	}
	if len(path) < 2 {
		t.Fatalf("expected a multi-point path, got %d points", len(path))
	}
}

func TestPlanSimple_MazeScenario(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := maze.New(20, 20, 0.02, rng)

	p := New(m, Config{QuerySize: 5})

	origin := geodesy.LLA{Lon: float64(m.Start[0]) * m.Step, Lat: float64(m.Start[1]) * m.Step, Alt: -5}
	terminus := geodesy.LLA{Lon: float64(m.End[0]) * m.Step, Lat: float64(m.End[1]) * m.Step, Alt: -6}

	path, ok := p.PlanSimple(context.Background(), origin, terminus, 0)
	if !ok {
		t.Fatal("expected plan_simple to find a path through the maze")
	}
	if len(path) < 2 {
		t.Fatalf("expected a multi-point path, got %d points", len(path))
	}
}

func TestPlanPaired_OriginEqualsTerminus(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := maze.New(20, 20, 0.02, rng)
	p := New(m, Config{QuerySize: 5})

	pt := geodesy.LLA{Lon: 0.04, Lat: 0.04, Alt: -5}
	path, ok := p.PlanPaired(context.Background(), pt, pt, 0)
	if !ok {
		t.Fatal("expected a trivial success when origin equals terminus")
	}
	if len(path) != 1 {
		t.Errorf("expected a single-point path, got %d points", len(path))
	}
}

func TestPlanPaired_GreedyLoopDetected(t *testing.T) {
	// Every query returns the same open 5x5 mesh, so each local search can
	// only move the origin onto one of that mesh's 16 boundary cells; with
	// more steps allowed than there are boundary cells, some origin must be
	// re-entered and trip the loop guard.
	q := &fixedQuerier{}
	p := New(q, Config{QuerySize: 5, MaxSteps: 50})

	origin := geodesy.LLA{Lon: 10.02, Lat: 50.02, Alt: -5}
	terminus := geodesy.LLA{Lon: 40, Lat: 60, Alt: -5}

	if _, ok := p.PlanPaired(context.Background(), origin, terminus, 0); ok {
		t.Error("expected a greedy loop to be detected and reported as failure")
	}
}

// fixedQuerier returns the same open 5x5 mesh of samples, spaced 0.01
// degrees from (10, 50), for every query, whatever the origin or size.
type fixedQuerier struct{}

func (q *fixedQuerier) Query(_ context.Context, _, _ float64, _ int) ([]geodesy.LLA, error) {
	var out []geodesy.LLA
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			out = append(out, geodesy.LLA{Lon: 10 + float64(i)*0.01, Lat: 50 + float64(j)*0.01, Alt: -5})
		}
	}
	return out, nil
}

func TestMergeTrajectoriesSmart_ColinearCollapse(t *testing.T) {
	segments := [][]geodesy.LLA{{
		{Lon: 0, Lat: 0},
		{Lon: 1, Lat: 1},
		{Lon: 2, Lat: 2},
		{Lon: 2, Lat: 3},
	}}

	got := MergeTrajectoriesSmart(segments)
	want := []geodesy.LLA{{Lon: 0, Lat: 0}, {Lon: 2, Lat: 2}, {Lon: 2, Lat: 3}}

	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Lon != want[i].Lon || got[i].Lat != want[i].Lat {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMergeTrajectoriesSmart_StitchesAdjacentSegments(t *testing.T) {
	segments := [][]geodesy.LLA{
		{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}},
		{{Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}},
	}
	got := MergeTrajectoriesSmart(segments)
	if len(got) != 3 {
		t.Fatalf("expected the shared tail/head point to be stitched once, got %+v", got)
	}
}

func TestMergeTrajectory_StitchesFilteredSegments(t *testing.T) {
	segments := [][]geodesy.LLA{
		{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}},
		{{Lon: 2, Lat: 2}, {Lon: 3, Lat: 3}},
	}
	got := MergeTrajectory(segments)
	if got[0] != (geodesy.LLA{Lon: 0, Lat: 0}) || got[len(got)-1] != (geodesy.LLA{Lon: 3, Lat: 3}) {
		t.Errorf("expected endpoints preserved, got %+v", got)
	}
}

func TestClampAltitudes(t *testing.T) {
	pts := []geodesy.LLA{{Alt: 50}, {Alt: -100}, {Alt: -3}}
	clampAltitudes(pts, -10)

	if pts[0].Alt != 0 {
		t.Errorf("expected altitude above 0 to clamp to 0, got %v", pts[0].Alt)
	}
	if pts[1].Alt != -10 {
		t.Errorf("expected altitude below threshold to clamp to -10, got %v", pts[1].Alt)
	}
	if pts[2].Alt != -3 {
		t.Errorf("expected in-range altitude to pass through unchanged, got %v", pts[2].Alt)
	}
}
