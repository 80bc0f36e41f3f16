// Package planner implements the incremental geodetic path planner: it
// repeatedly builds a local grid.Grid around a moving origin, searches it
// with astar, and stitches the resulting segments together until the true
// terminus is reached.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"geopath/pkg/astar"
	"geopath/pkg/geodesy"
	"geopath/pkg/grid"
)

// Querier fetches a size x size neighborhood of elevation samples centered
// roughly on (lon, lat). It is satisfied by *elevation.Client. The planner
// is the single caller: each local step issues exactly one query and hands
// the result to a fresh grid.Grid.
type Querier interface {
	Query(ctx context.Context, lon, lat float64, size int) ([]geodesy.LLA, error)
}

// Config tunes the neighborhood requested from the elevation collaborator
// per query; grid dimensions are derived from the sample count each query
// returns, not configured here.
type Config struct {
	QuerySize int
	MaxSteps  int // defensive cap on re-gridding iterations

	// UseH3Index switches grid rasterization from Init's exhaustive
	// walking-cursor placement to Init2's H3 block-hash lookup, trading
	// nearest-neighbor precision for fewer comparisons on large neighborhoods.
	UseH3Index   bool
	H3BlockRes   int
	H3RingRadius int
}

func (c Config) withDefaults() Config {
	if c.QuerySize <= 0 {
		c.QuerySize = 3
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 200
	}
	if c.H3BlockRes <= 0 {
		c.H3BlockRes = 5
	}
	if c.H3RingRadius <= 0 {
		c.H3RingRadius = 3
	}
	return c
}

// Planner orchestrates repeated grid construction and A* search against a
// single elevation query collaborator.
type Planner struct {
	querier Querier
	cfg     Config
}

// New creates a Planner backed by q, the external elevation query
// collaborator.
func New(q Querier, cfg Config) *Planner {
	return &Planner{querier: q, cfg: cfg.withDefaults()}
}

func originKey(p geodesy.LLA) string {
	return fmt.Sprintf("%.9f,%.9f", p.Lon, p.Lat)
}

func sameCell(a, b geodesy.LLA) bool {
	return a.Lon == b.Lon && a.Lat == b.Lat
}

// buildGrid issues the single elevation query a local step is allowed and
// ingests its result into a fresh grid centered on origin.
func (p *Planner) buildGrid(ctx context.Context, origin geodesy.LLA, threshold float64) (*grid.Grid, error) {
	samples, err := p.querier.Query(ctx, origin.Lon, origin.Lat, p.cfg.QuerySize)
	if err != nil {
		return nil, fmt.Errorf("planner: elevation query around (%.6f,%.6f): %w", origin.Lon, origin.Lat, err)
	}

	g := grid.New(threshold)
	if p.cfg.UseH3Index {
		if err := g.Init2(samples, p.cfg.H3BlockRes, p.cfg.H3RingRadius); err != nil {
			return nil, fmt.Errorf("planner: no elevation data around (%.6f,%.6f): %w", origin.Lon, origin.Lat, err)
		}
		return g, nil
	}
	if err := g.Init(samples); err != nil {
		return nil, fmt.Errorf("planner: no elevation data around (%.6f,%.6f): %w", origin.Lon, origin.Lat, err)
	}
	return g, nil
}

// localSearch builds a grid around origin and searches it toward terminus,
// trying the true terminus cell first (when it falls inside the grid) and
// falling back to boundary candidates in order of f = g + h. It returns the
// successful segment, its tail point, and whether the segment actually
// reached the true terminus cell.
func (p *Planner) localSearch(ctx context.Context, origin, terminus geodesy.LLA, threshold float64) (segment []geodesy.LLA, tail geodesy.LLA, reachedTerminus bool, err error) {
	g, err := p.buildGrid(ctx, origin, threshold)
	if err != nil {
		return nil, geodesy.LLA{}, false, err
	}

	sx, sy, ok := g.GetIndex(origin.Lon, origin.Lat)
	if !ok || !g.Moveable(sx, sy) {
		return nil, geodesy.LLA{}, false, fmt.Errorf("planner: origin (%.6f,%.6f) is blocked or outside its own grid", origin.Lon, origin.Lat)
	}

	termX, termY, termInGrid := g.GetIndex(terminus.Lon, terminus.Lat)
	candidates := astar.TerminalCandidates(g, sx, sy, terminus)

	for _, c := range candidates {
		reached := termInGrid && c[0] == termX && c[1] == termY

		if path, ok := astar.StraightPath(g, sx, sy, c[0], c[1]); ok {
			return path, path[len(path)-1], reached, nil
		}

		search := astar.New(g)
		search.SetStartIdx(sx, sy)
		search.SetEndIdx(c[0], c[1])

		path, found := search.Search()
		if !found || len(path) < 2 {
			continue
		}

		return path, path[len(path)-1], reached, nil
	}

	return nil, geodesy.LLA{}, false, fmt.Errorf("planner: local search from (%.6f,%.6f) exhausted all boundary candidates", origin.Lon, origin.Lat)
}

// simpleStep builds a single grid around origin, relocates terminus onto a
// traversable cell with astar.TerminalReset, and searches toward it. It
// returns the grid the search ran against (so the caller can test whether
// terminus now falls inside it) and the resulting path.
func (p *Planner) simpleStep(ctx context.Context, origin, terminus geodesy.LLA, threshold float64) (g *grid.Grid, path []geodesy.LLA, err error) {
	g, err = p.buildGrid(ctx, origin, threshold)
	if err != nil {
		return nil, nil, err
	}

	sx, sy, ok := g.GetIndex(origin.Lon, origin.Lat)
	if !ok || !g.Moveable(sx, sy) {
		return nil, nil, fmt.Errorf("planner: origin (%.6f,%.6f) is blocked or outside its own grid", origin.Lon, origin.Lat)
	}

	ex, ey, ok := astar.TerminalReset(g, origin, terminus)
	if !ok {
		return nil, nil, fmt.Errorf("planner: terminal_reset found no traversable boundary cell from (%.6f,%.6f)", origin.Lon, origin.Lat)
	}

	search := astar.New(g)
	search.SetStartIdx(sx, sy)
	search.SetEndIdx(ex, ey)
	path, found := search.Search()
	if !found || len(path) == 0 {
		return nil, nil, fmt.Errorf("planner: local search from (%.6f,%.6f) found no path", origin.Lon, origin.Lat)
	}
	return g, path, nil
}

// PlanSimple builds successive grids centered on the advancing origin,
// relocating terminus to a traversable boundary cell with terminal_reset
// and searching toward it each time, until terminus itself falls inside the
// current grid's footprint. It fails as soon as any local search fails.
func (p *Planner) PlanSimple(ctx context.Context, origin, terminus geodesy.LLA, threshold float64) ([]geodesy.LLA, bool) {
	current := origin

	g, path, err := p.simpleStep(ctx, current, terminus, threshold)
	if err != nil {
		slog.Warn("plan_simple local search failed", "origin", current, "error", err)
		return nil, false
	}
	segments := [][]geodesy.LLA{path}
	current = path[len(path)-1]

	for step := 0; step < p.cfg.MaxSteps && !g.IsInGrid(terminus); step++ {
		g, path, err = p.simpleStep(ctx, current, terminus, threshold)
		if err != nil {
			slog.Warn("plan_simple local search failed", "origin", current, "error", err)
			return nil, false
		}
		segments = append(segments, path)
		current = path[len(path)-1]
	}

	if !g.IsInGrid(terminus) {
		slog.Warn("plan_simple exceeded its step budget", "steps", p.cfg.MaxSteps)
		return nil, false
	}

	merged := MergeTrajectory(segments)
	clampAltitudes(merged, threshold)
	return merged, true
}

// PlanPaired is the default entry point: it greedily advances the origin to
// the tail of each successful local segment, re-gridding around it, and
// aborts if the same origin is ever revisited (a sign the planner is
// oscillating without making progress toward terminus).
func (p *Planner) PlanPaired(ctx context.Context, origin, terminus geodesy.LLA, threshold float64) ([]geodesy.LLA, bool) {
	if sameCell(origin, terminus) {
		return []geodesy.LLA{origin}, true
	}

	visited := make(map[string]bool)
	visited[originKey(origin)] = true

	segment, tail, reached, err := p.localSearch(ctx, origin, terminus, threshold)
	if err != nil {
		slog.Warn("plan_paired initial local search failed", "origin", origin, "error", err)
		return nil, false
	}
	segments := [][]geodesy.LLA{segment}
	current := tail

	for step := 0; step < p.cfg.MaxSteps; step++ {
		if reached || sameCell(current, terminus) {
			merged := MergeTrajectoriesSmart(segments)
			clampAltitudes(merged, threshold)
			return merged, true
		}

		key := originKey(current)
		if visited[key] {
			slog.Warn("plan_paired greedy loop detected", "origin", current)
			return nil, false
		}
		visited[key] = true

		segment, tail, reached, err = p.localSearch(ctx, current, terminus, threshold)
		if err != nil {
			slog.Warn("plan_paired local search failed", "origin", current, "error", err)
			return nil, false
		}
		segments = append(segments, segment)
		current = tail
	}

	slog.Warn("plan_paired exceeded its step budget", "steps", p.cfg.MaxSteps)
	return nil, false
}
