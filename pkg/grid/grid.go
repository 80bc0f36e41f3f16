// Package grid builds a regular lon/lat elevation grid, from the irregular
// samples an external elevation query collaborator returns, and exposes the
// 8-connected cell accessors the A* search and incremental planner are
// built on. Ingestion itself (Init/Init2) is a pure function of an
// already-fetched sample slice; repeated querying is the planner's job.
package grid

import (
	"fmt"
	"math"

	"geopath/pkg/geodesy"
)

// Dir8 holds the 8-connected neighbor offsets in (dx, dy) grid-index space,
// ordered starting east and sweeping counter-clockwise.
var Dir8 = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Grid is a regular lon/lat raster of elevation samples.
type Grid struct {
	Threshold float64 // altitudes above this are obstacles

	NumLon, NumLat   int
	OriginLon        float64 // lon of column 0
	OriginLat        float64 // lat of row 0
	GapLon, GapLat   float64 // degrees between adjacent columns/rows
	cells            [][]geodesy.LLA
	filled           [][]bool
}

// New creates an empty, unsized Grid with the given obstacle altitude
// threshold. Init or Init2 must be called before it can be queried; they
// derive the grid's dimensions from the sample count they ingest.
func New(threshold float64) *Grid {
	return &Grid{Threshold: threshold}
}

// NewSized creates a Grid already allocated to numLon x numLat, bypassing
// Init/Init2 ingestion. Used to build synthetic grids directly, e.g. in tests.
func NewSized(threshold float64, numLon, numLat int) *Grid {
	g := &Grid{Threshold: threshold}
	g.allocate(numLon, numLat)
	return g
}

// allocate sizes the grid's cell storage to numLon x numLat.
func (g *Grid) allocate(numLon, numLat int) {
	cells := make([][]geodesy.LLA, numLon)
	filled := make([][]bool, numLon)
	for x := range cells {
		cells[x] = make([]geodesy.LLA, numLat)
		filled[x] = make([]bool, numLat)
	}
	g.NumLon, g.NumLat = numLon, numLat
	g.cells, g.filled = cells, filled
}

// IsInGrid reports whether lla falls within the grid's sample bounding box,
// independent of whether its nearest cell happens to be traversable.
func (g *Grid) IsInGrid(lla geodesy.LLA) bool {
	return lla.Lon >= g.OriginLon && lla.Lon <= g.OriginLon+g.GapLon*float64(g.NumLon-1) &&
		lla.Lat >= g.OriginLat && lla.Lat <= g.OriginLat+g.GapLat*float64(g.NumLat-1)
}

// InBounds reports whether (x, y) is a valid cell index.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.NumLon && y >= 0 && y < g.NumLat
}

// IsObstacle reports whether the cell is outside the grid or carries an
// altitude above the obstacle threshold.
func (g *Grid) IsObstacle(x, y int) bool {
	if !g.InBounds(x, y) || !g.filled[x][y] {
		return true
	}
	return g.cells[x][y].Alt > g.Threshold
}

// Moveable reports whether the cell can be entered by the search: in bounds,
// sampled, and not an obstacle.
func (g *Grid) Moveable(x, y int) bool {
	return g.InBounds(x, y) && g.filled[x][y] && g.cells[x][y].Alt <= g.Threshold
}

// Cell returns the sample stored at (x, y).
func (g *Grid) Cell(x, y int) geodesy.LLA {
	return g.cells[x][y]
}

// Set stores a sample at (x, y), marking the cell filled.
func (g *Grid) Set(x, y int, sample geodesy.LLA) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[x][y] = sample
	g.filled[x][y] = true
}

// Filled reports whether a sample has been written to (x, y).
func (g *Grid) Filled(x, y int) bool {
	return g.InBounds(x, y) && g.filled[x][y]
}

// GetIndex maps a lon/lat to the nearest grid cell, returning false if the
// coordinate falls outside the grid's footprint.
func (g *Grid) GetIndex(lon, lat float64) (x, y int, ok bool) {
	if g.GapLon == 0 || g.GapLat == 0 {
		return 0, 0, false
	}
	x = int(math.Round((lon - g.OriginLon) / g.GapLon))
	y = int(math.Round((lat - g.OriginLat) / g.GapLat))
	return x, y, g.InBounds(x, y)
}

// IndexToLLA returns the geographic coordinate of a grid cell's center.
func (g *Grid) IndexToLLA(x, y int) geodesy.LLA {
	if g.Filled(x, y) {
		return g.cells[x][y]
	}
	return geodesy.LLA{
		Lon: g.OriginLon + float64(x)*g.GapLon,
		Lat: g.OriginLat + float64(y)*g.GapLat,
	}
}

// PackIndex encodes (x, y) as a single integer, used as the key of A*'s
// cost, parent and closed-set maps.
func (g *Grid) PackIndex(x, y int) int {
	return x*g.NumLat + y
}

var errEmptySamples = fmt.Errorf("grid: no samples to ingest")
